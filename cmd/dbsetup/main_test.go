package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const schemaSQL = `CREATE TABLE trips (id INTEGER PRIMARY KEY, name TEXT NOT NULL);`
const seedSQL = `INSERT INTO trips (name) VALUES ('Kyoto in spring');`

func writeFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(%v): %v", args, err)
	}
	return out.String()
}

func TestRootReportsBothMissing(t *testing.T) {
	out := execute(t, "--dir", t.TempDir())

	if n := strings.Count(out, "✗ Missing"); n != 2 {
		t.Fatalf("expected 2 missing lines, got %d:\n%s", n, out)
	}
	if strings.Contains(out, "✓ Found") {
		t.Fatalf("unexpected found line:\n%s", out)
	}
}

func TestRootReportsSchemaOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scripts/001-initial-schema.sql", schemaSQL)

	out := execute(t, "--dir", dir)
	if !strings.Contains(out, "[v0] ✓ Found scripts/001-initial-schema.sql") {
		t.Errorf("schema not found:\n%s", out)
	}
	if !strings.Contains(out, "[v0] ✗ Missing scripts/002-seed-data.sql") {
		t.Errorf("seed not missing:\n%s", out)
	}
	if !strings.Contains(out, "3. Start creating trips!") {
		t.Errorf("usage steps missing:\n%s", out)
	}
}

func TestRootIgnoresArgsAndUnknownFlags(t *testing.T) {
	out := execute(t, "--dir", t.TempDir(), "extra", "--no-such-flag")
	if !strings.Contains(out, "GlobalTrotters Database Setup") {
		t.Fatalf("report not printed:\n%s", out)
	}
}

func TestRootFlagMissingValueFallsBackToDefaults(t *testing.T) {
	for _, args := range [][]string{{"--seed"}, {"--dir"}, {"validate", "--schema"}} {
		out := execute(t, args...)
		if !strings.Contains(out, "✗ Missing scripts/002-seed-data.sql") {
			t.Errorf("%v: default report not printed:\n%s", args, out)
		}
	}
}

func TestRootEmptySeedIsMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scripts/001-initial-schema.sql", schemaSQL)

	out := execute(t, "--dir", dir, "--seed", "")
	if strings.Count(out, "✓ Found") != 1 {
		t.Fatalf("expected only the schema found:\n%s", out)
	}
	if !strings.Contains(out, "[v0] ✗ Missing \n") {
		t.Fatalf("empty seed not reported missing:\n%s", out)
	}
}

func TestRootFromEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "db/schema.sql", schemaSQL)
	t.Setenv("GLOBALTROTTERS_DIR", dir)
	t.Setenv("GLOBALTROTTERS_SCHEMA", "db/schema.sql")
	t.Setenv("GLOBALTROTTERS_TAG", "[setup]")

	out := execute(t)
	if !strings.Contains(out, "[setup] ✓ Found db/schema.sql") {
		t.Fatalf("env config not applied:\n%s", out)
	}
}

func TestReady(t *testing.T) {
	out := execute(t, "ready")
	if !strings.Contains(out, "[v0] Database initialization scripts are ready") {
		t.Fatalf("unexpected ready output:\n%s", out)
	}
	if !strings.Contains(out, "scripts/001-initial-schema.sql and scripts/002-seed-data.sql") {
		t.Fatalf("script locations missing:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scripts/001-initial-schema.sql", schemaSQL)
	writeFile(t, dir, "scripts/002-seed-data.sql", seedSQL)

	out := execute(t, "validate", "--dir", dir)
	if n := strings.Count(out, "✓ Applied"); n != 2 {
		t.Fatalf("expected 2 applied lines, got %d:\n%s", n, out)
	}
}

func TestValidateReportsFailuresWithoutError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scripts/002-seed-data.sql", seedSQL)

	out := execute(t, "validate", "--dir", dir)
	if !strings.Contains(out, "- Skipped scripts/001-initial-schema.sql") {
		t.Errorf("schema not skipped:\n%s", out)
	}
	if !strings.Contains(out, "✗ Failed scripts/002-seed-data.sql") {
		t.Errorf("seed failure not reported:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"version", "x"}} {
		out := execute(t, args...)
		if !strings.HasPrefix(out, "dbsetup ") {
			t.Fatalf("%v: unexpected version output: %q", args, out)
		}
	}
}
