// Package leveldb is a storage backend on an embedded LevelDB directory.
//
// Each record is one key, "patient/<position>", holding the record as JSON.
// Positions are zero-padded so LevelDB's byte-ordered iteration returns
// records in insertion order.
package leveldb

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/aanand-mishra/patients-api/internal/storage"
	"github.com/aanand-mishra/patients-api/internal/types"
)

const keyPrefix = "patient/"

type Store struct {
	db *leveldb.DB
}

// New opens (or creates) the LevelDB directory at path.
func New(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, storage.Wrap("leveldb.New: open "+path, err)
	}
	return &Store{db: db}, nil
}

func recordKey(pos int) []byte {
	return []byte(fmt.Sprintf("%s%010d", keyPrefix, pos))
}

func (s *Store) Load() ([]types.Patient, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()

	records := make([]types.Patient, 0)
	for iter.Next() {
		var p types.Patient
		if err := json.Unmarshal(iter.Value(), &p); err != nil {
			return nil, storage.Wrap(fmt.Sprintf("leveldb.Load: decode %s", iter.Key()), err)
		}
		records = append(records, p)
	}
	if err := iter.Error(); err != nil {
		return nil, storage.Wrap("leveldb.Load: iterate", err)
	}
	return records, nil
}

// SaveAll deletes every existing record key and writes the new set in a
// single batch. LevelDB applies a batch atomically.
func (s *Store) SaveAll(records []types.Patient) error {
	batch := new(leveldb.Batch)

	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	for iter.Next() {
		// iter.Key() is only valid until Next; Batch.Delete copies it.
		batch.Delete(iter.Key())
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return storage.Wrap("leveldb.SaveAll: iterate", err)
	}

	seen := make(map[string]struct{}, len(records))
	for i, p := range records {
		if _, dup := seen[p.ID]; dup {
			return storage.Wrap("leveldb.SaveAll", fmt.Errorf("duplicate id %q", p.ID))
		}
		seen[p.ID] = struct{}{}

		data, err := json.Marshal(p)
		if err != nil {
			return storage.Wrap("leveldb.SaveAll: encode "+p.ID, err)
		}
		batch.Put(recordKey(i), data)
	}

	if err := s.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return storage.Wrap("leveldb.SaveAll: write batch", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
