package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig("", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "data" || cfg.Timeout != 30 {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := writeFile(t, "conf.toml", "data_dir = \"from-file\"\ntimeout_seconds = 10\n")

	// file beats defaults
	cfg, err := resolveConfig(path, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "from-file" || cfg.Timeout != 10 {
		t.Fatalf("file layer: %+v", cfg)
	}

	// env beats file
	t.Setenv("WORTHWATCH_DATA_DIR", "from-env")
	cfg, err = resolveConfig(path, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "from-env" || cfg.Timeout != 10 {
		t.Fatalf("env layer: %+v", cfg)
	}

	// flag beats env
	cfg, err = resolveConfig(path, Config{DataDir: "from-flag"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "from-flag" {
		t.Fatalf("flag layer: %+v", cfg)
	}
}

func TestLoadConfigFileFormats(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"conf.toml", "data_dir = \"d\"\nuser_agent = \"ua\"\n"},
		{"conf.yaml", "data_dir: d\nuser_agent: ua\n"},
		{"conf.json", `{"data_dir":"d","user_agent":"ua"}`},
	}
	for _, tc := range cases {
		path := writeFile(t, tc.name, tc.content)
		cfg, err := loadConfigFile(path)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if cfg.DataDir != "d" || cfg.UserAgent != "ua" {
			t.Fatalf("%s: %+v", tc.name, cfg)
		}
	}

	if _, err := loadConfigFile(writeFile(t, "bad.toml", "{{not toml")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := resolveConfig(filepath.Join(t.TempDir(), "missing.toml"), Config{}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestResolveConfigBadTimeoutEnv(t *testing.T) {
	t.Setenv("WORTHWATCH_TIMEOUT", "soon")
	if _, err := resolveConfig("", Config{}); err == nil {
		t.Fatal("expected error for non-numeric timeout")
	}
}

func TestSelectTables(t *testing.T) {
	if tables, ok := selectTables("both"); !ok || len(tables) != 2 {
		t.Fatalf("both: %v %v", tables, ok)
	}
	if tables, ok := selectTables("assets"); !ok || len(tables) != 1 || tables[0] != "assets" {
		t.Fatalf("assets: %v %v", tables, ok)
	}
	if _, ok := selectTables("nope"); ok {
		t.Fatal("invalid table accepted")
	}
}
