package main

import (
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/patients-api/internal/config"
	"github.com/aanand-mishra/patients-api/internal/types"
)

func TestOpenStorage_AllBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []config.Storage{
		{Type: "json", Path: filepath.Join(dir, "patients.json")},
		{Type: "sqlite", Path: filepath.Join(dir, "patients.db")},
		{Type: "leveldb", Path: filepath.Join(dir, "patients.ldb")},
		{Type: "memory"},
	}

	p := types.Patient{ID: "P001", Name: "n", City: "c", Age: 20, Gender: types.GenderMale, Height: 170, Weight: 70}
	for _, c := range cases {
		t.Run(c.Type, func(t *testing.T) {
			store, err := openStorage(c)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close()

			if err := store.SaveAll([]types.Patient{p}); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != 1 || got[0] != p {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestOpenStorage_Unknown(t *testing.T) {
	store, err := openStorage(config.Storage{Type: "redis"})
	if err == nil || store != nil {
		t.Fatalf("expected error and nil store, got %v, %v", store, err)
	}
}
