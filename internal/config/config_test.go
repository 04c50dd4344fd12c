package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParsePages_Range(t *testing.T) {
	pages, err := ParsePages("32-35")
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if !reflect.DeepEqual(pages, []int{32, 33, 34, 35}) {
		t.Errorf("unexpected pages %v", pages)
	}
}

func TestParsePages_List(t *testing.T) {
	pages, err := ParsePages("34, 32,33,32")
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if !reflect.DeepEqual(pages, []int{32, 33, 34}) {
		t.Errorf("expected sorted deduplicated pages, got %v", pages)
	}
}

func TestParsePages_SinglePage(t *testing.T) {
	pages, err := ParsePages("7")
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if !reflect.DeepEqual(pages, []int{7}) {
		t.Errorf("unexpected pages %v", pages)
	}
}

func TestParsePages_Invalid(t *testing.T) {
	for _, spec := range []string{"", "abc", "5-2", "0-3", "1,two,3", "-4"} {
		if _, err := ParsePages(spec); err == nil {
			t.Errorf("expected an error for %q", spec)
		}
	}
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SS_API_KEY", "")
	t.Setenv("CITEGRAPH_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if cfg.DBPath != DefaultDBFile || cfg.RateLimitDelay != DefaultRateLimitDelay {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	cfgDir := filepath.Join(dir, ConfigDir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "s2_api_key: file-key\ndb_path: /tmp/papers.db\nrate_limit_delay: 0.5\n"
	if err := os.WriteFile(filepath.Join(cfgDir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load with file: %v", err)
	}
	if cfg.S2APIKey != "file-key" || cfg.DBPath != "/tmp/papers.db" || cfg.RateLimitDelay != 0.5 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, ConfigDir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, ConfigFile),
		[]byte("s2_api_key: file-key\ndb_path: file.db\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SS_API_KEY", "env-key")
	t.Setenv("CITEGRAPH_DB", "env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.S2APIKey != "env-key" {
		t.Errorf("expected the env key to win, got %q", cfg.S2APIKey)
	}
	if cfg.DBPath != "env.db" {
		t.Errorf("expected the env db path to win, got %q", cfg.DBPath)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SS_API_KEY", "")
	t.Setenv("CITEGRAPH_DB", "")

	want := &Config{S2APIKey: "secret", DBPath: "graph.db", RateLimitDelay: 2.5}
	if err := want.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.S2APIKey != want.S2APIKey || got.DBPath != want.DBPath || got.RateLimitDelay != want.RateLimitDelay {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
