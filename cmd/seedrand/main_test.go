package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/opd-ai/go-seedrand"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("run(%v) error: %v\nstderr: %s", args, err, stderr.String())
	}
	return stdout.String()
}

func TestRunMatchesEngine(t *testing.T) {
	got := runCLI(t, "-seed", "12345", "-kind", "uint64", "-n", "5", "-log-level", "error")

	e := seedrand.MustNew(int64(12345))
	want, err := e.AppendText(nil, seedrand.KindUint64, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != string(want) {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunStringSeed(t *testing.T) {
	a := runCLI(t, "-seed", "42", "-seed-type", "string", "-n", "3", "-log-level", "error")
	b := runCLI(t, "-seed", "42", "-n", "3", "-log-level", "error")
	if a == b {
		t.Error("string seed \"42\" and integer seed 42 produced the same output")
	}
}

func TestSaveRestore(t *testing.T) {
	dir := t.TempDir()
	state := filepath.Join(dir, "state.json")

	first := runCLI(t, "-seed", "resume", "-n", "7", "-save", state, "-log-level", "error")
	second := runCLI(t, "-restore", state, "-n", "4", "-log-level", "error")
	whole := runCLI(t, "-seed", "resume", "-n", "11", "-log-level", "error")

	if first+second != whole {
		t.Errorf("resumed output differs:\n got %q\nwant %q", first+second, whole)
	}

	data, err := os.ReadFile(state)
	if err != nil {
		t.Fatal(err)
	}
	var d seedrand.Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("saved descriptor: %v", err)
	}
	if d.Seed != "resume" {
		t.Errorf("saved seed = %v, want resume", d.Seed)
	}
}

func TestZstdOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "values.zst")
	runCLI(t, "-seed", "1", "-kind", "bool", "-n", "100", "-zstd", "-out", out, "-log-level", "error")

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Fields(string(data))
	if len(lines) != 100 {
		t.Fatalf("got %d lines, want 100", len(lines))
	}
	for i, l := range lines {
		if l != "true" && l != "false" {
			t.Errorf("line %d = %q, want a bool", i, l)
		}
	}
}

func TestCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping uniformity check in short mode")
	}
	var stdout, stderr bytes.Buffer
	err := run([]string{"-seed", "2024", "-n", "20000", "-check", "-log-level", "error"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run error: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "chi2(63)") {
		t.Errorf("stderr = %q, want a uniformity report", stderr.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"-kind", "complex64"}},
		{"negative count", []string{"-n", "-1"}},
		{"odd jump", []string{"-jump", "3"}},
		{"bad int seed", []string{"-seed", "abc", "-seed-type", "int"}},
		{"missing descriptor", []string{"-restore", "/nonexistent/state.json"}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err == nil {
				t.Errorf("run(%v) succeeded, want error", tt.args)
			}
		})
	}
}
