// Package jsonfile stores every record in one JSON file shaped as an object
// keyed by identifier:
//
//	{
//	  "P001": {"name": "...", "city": "...", "age": 28, "gender": "female", "height": 165, "weight": 90},
//	  "P002": {...}
//	}
//
// Key order in the file is the insertion order, and Load preserves it.
// Keys other than the six base fields (for example a bmi or verdict
// written by an older tool) are ignored on load and dropped on the next save.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/patients-api/internal/storage"
	"github.com/aanand-mishra/patients-api/internal/types"
)

// record is the on-disk value; the identifier is the object key.
type record struct {
	Name   string       `json:"name"`
	City   string       `json:"city"`
	Age    int          `json:"age"`
	Gender types.Gender `json:"gender"`
	Height float64      `json:"height"`
	Weight float64      `json:"weight"`
}

type Store struct {
	path string
}

// New returns a store backed by the file at path. The file is created on
// the first save; a missing file loads as an empty store.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, storage.Wrap("jsonfile.New", errors.New("empty path"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, storage.Wrap("jsonfile.New: create dir", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Load() ([]types.Patient, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []types.Patient{}, nil
	}
	if err != nil {
		return nil, storage.Wrap("jsonfile.Load: read", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []types.Patient{}, nil
	}

	records, err := decode(data)
	if err != nil {
		return nil, storage.Wrap("jsonfile.Load: decode "+s.path, err)
	}
	return records, nil
}

// decode walks the top-level object token by token; unmarshalling into a
// map would lose the key order.
func decode(data []byte) ([]types.Patient, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	records := make([]types.Patient, 0)
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}

		var r record
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("record %q: %w", id, err)
		}
		records = append(records, types.Patient{
			ID:     id,
			Name:   r.Name,
			City:   r.City,
			Age:    r.Age,
			Gender: r.Gender,
			Height: r.Height,
			Weight: r.Weight,
		})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after top-level object")
	}
	return records, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// SaveAll writes the whole collection to a temporary file next to the target
// and renames it into place, so readers never observe a half-written file.
func (s *Store) SaveAll(records []types.Patient) error {
	data, err := encode(records)
	if err != nil {
		return storage.Wrap("jsonfile.SaveAll: encode", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".patients-*.json")
	if err != nil {
		return storage.Wrap("jsonfile.SaveAll: create temp", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storage.Wrap("jsonfile.SaveAll: write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storage.Wrap("jsonfile.SaveAll: sync", err)
	}
	if err := tmp.Close(); err != nil {
		return storage.Wrap("jsonfile.SaveAll: close", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storage.Wrap("jsonfile.SaveAll: rename", err)
	}
	return nil
}

func encode(records []types.Patient) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]struct{}, len(records))
	for i, p := range records {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(record{
			Name:   p.Name,
			City:   p.City,
			Age:    p.Age,
			Gender: p.Gender,
			Height: p.Height,
			Weight: p.Weight,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (s *Store) Close() error { return nil }
