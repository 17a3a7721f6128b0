package config

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seedrand.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Kind != "float64" || cfg.Count != 10 || cfg.Server.Addr != ":5808" || cfg.Server.MaxAdvance != 1<<28 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
seed: "12345"
kind: uint64
count: 3
jump: 1000
log:
  level: debug
  format: json
server:
  addr: 127.0.0.1:9000
  max_count: 50
  read_timeout: 2s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Kind != "uint64" || cfg.Count != 3 || cfg.Jump != 1000 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxCount != 50 || cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default kept", cfg.Server.WriteTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "kind: uint64\ncount: 3\n")
	t.Setenv("SEEDRAND_COUNT", "7")
	t.Setenv("SEEDRAND_LOG_LEVEL", "trace")
	t.Setenv("SEEDRAND_SERVER_MAX_COUNT", "99")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Count != 7 || cfg.Kind != "uint64" {
		t.Errorf("Count, Kind = %d, %s; want 7, uint64", cfg.Count, cfg.Kind)
	}
	if cfg.Log.Level != "trace" || cfg.Server.MaxCount != 99 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		env    map[string]string
		substr string
	}{
		{"bad_yaml", "count: [", nil, "parse config"},
		{"bad_env", "", map[string]string{"SEEDRAND_COUNT": "many"}, "parse env"},
		{"bad_kind", "kind: complex", nil, "unknown kind"},
		{"odd_jump", "jump: 3", nil, "jump"},
		{"bad_seed_type", "seed_type: float", nil, "seed_type"},
		{"bad_int_seed", "seed: abc\nseed_type: int", nil, "not a decimal integer"},
		{"bad_format", "log:\n  format: xml", nil, "log format"},
		{"zero_max", "server:\n  max_count: 0", nil, "max_count"},
		{"zero_advance", "server:\n  max_advance: 0", nil, "max_advance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.substr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestParseSeed(t *testing.T) {
	big100 := new(big.Int).Lsh(big.NewInt(1), 100)

	tests := []struct {
		s, typ string
		want   any
	}{
		{"", SeedAuto, nil},
		{"", SeedString, ""},
		{"42", SeedAuto, int64(42)},
		{"-7", SeedInt, int64(-7)},
		{"42", SeedString, "42"},
		{"hello", SeedAuto, "hello"},
		{big100.String(), SeedAuto, big100},
	}

	for _, tt := range tests {
		got, err := ParseSeed(tt.s, tt.typ)
		if err != nil {
			t.Errorf("ParseSeed(%q, %q) error = %v", tt.s, tt.typ, err)
			continue
		}
		if b, ok := tt.want.(*big.Int); ok {
			if g, ok := got.(*big.Int); !ok || g.Cmp(b) != 0 {
				t.Errorf("ParseSeed(%q, %q) = %v, want %v", tt.s, tt.typ, got, b)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeed(%q, %q) = %#v, want %#v", tt.s, tt.typ, got, tt.want)
		}
	}

	if _, err := ParseSeed("x", "hex"); err == nil {
		t.Error("ParseSeed() with unknown type should fail")
	}
}
