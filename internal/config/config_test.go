package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  path: storage/patients.json
http_server:
  address: localhost:8082
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "dev" || cfg.Addr != "localhost:8082" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Storage.Type != "json" || cfg.Storage.Path != "storage/patients.json" {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if cfg.VerdictBands != "legacy" {
		t.Fatalf("verdict bands=%q", cfg.VerdictBands)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
env: prod
verdict_bands: legacy
storage:
  type: json
  path: a.json
http_server:
  address: :8080
`)
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("STORAGE_PATH", "b.db")
	t.Setenv("VERDICT_BANDS", "who")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.Path != "b.db" || cfg.VerdictBands != "who" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_MemoryNeedsNoPath(t *testing.T) {
	path := writeConfig(t, `
env: staging
storage:
  type: memory
http_server:
  address: :8080
`)

	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown env": `
env: qa
storage: {path: a.json}
http_server: {address: ":1"}
`,
		"unknown storage": `
env: dev
storage: {type: redis, path: x}
http_server: {address: ":1"}
`,
		"missing path": `
env: dev
storage: {type: sqlite}
http_server: {address: ":1"}
`,
		"unknown bands": `
env: dev
verdict_bands: asian
storage: {path: a.json}
http_server: {address: ":1"}
`,
		"missing address": `
env: dev
storage: {path: a.json}
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error")
	}
}
