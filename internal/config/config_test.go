package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Listen == "" {
		t.Error("listen address should have a default")
	}
	if cfg.Solver.OffsetDeg != 88.0 {
		t.Errorf("expected offset 88, got %f", cfg.Solver.OffsetDeg)
	}
	if cfg.Solver.WindowMin >= cfg.Solver.WindowMax {
		t.Error("default window must have min < max")
	}
	if cfg.Solver.ToleranceDeg <= 0 {
		t.Error("tolerance should be positive")
	}
	if cfg.Solver.MaxIter <= 0 {
		t.Error("max_iter should be positive")
	}
	if cfg.Houses.DefaultSystem != "P" {
		t.Errorf("expected default house system P, got %s", cfg.Houses.DefaultSystem)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ephemerisd.yaml")
	body := []byte("server:\n  listen: \"0.0.0.0:9000\"\nsolver:\n  tolerance_deg: 0.001\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Errorf("listen = %s", cfg.Server.Listen)
	}
	if cfg.Solver.ToleranceDeg != 0.001 {
		t.Errorf("tolerance = %f", cfg.Solver.ToleranceDeg)
	}
	// untouched fields keep defaults
	if cfg.Solver.OffsetDeg != 88.0 {
		t.Errorf("offset = %f, want default 88", cfg.Solver.OffsetDeg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")

	cfg := DefaultConfig()
	cfg.Solver.MaxIter = 42
	cfg.Server.APIKeys = []string{"k1", "k2"}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Solver.MaxIter != 42 {
		t.Errorf("max_iter = %d", got.Solver.MaxIter)
	}
	if len(got.Server.APIKeys) != 2 {
		t.Errorf("api keys = %v", got.Server.APIKeys)
	}
}

func TestResolveAPIKeysEnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.APIKeys = []string{"from-file"}

	t.Setenv(APIKeysEnv, "a, b ,c")
	keys := cfg.ResolveAPIKeys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("keys = %v", keys)
	}

	t.Setenv(APIKeysEnv, "")
	keys = cfg.ResolveAPIKeys()
	if len(keys) != 1 || keys[0] != "from-file" {
		t.Errorf("keys = %v", keys)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("human-design")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.OffsetDeg != 88.0 {
		t.Errorf("expected offset 88, got %f", p.OffsetDeg)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Error("expected presets")
	}
	found := false
	for _, n := range names {
		if n == "human-design" {
			found = true
		}
	}
	if !found {
		t.Error("human-design preset missing")
	}
}
