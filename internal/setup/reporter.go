// Package setup reports on the SQL assets the GlobalTrotters web app loads
// into its in-browser database.
package setup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Default asset paths, relative to the working directory.
const (
	DefaultSchemaFile = "scripts/001-initial-schema.sql"
	DefaultSeedFile   = "scripts/002-seed-data.sql"
	DefaultTag        = "[v0]"
)

// Asset is an expected SQL file and whether it was found.
type Asset struct {
	Path  string
	Found bool
}

// StatFunc matches os.Stat.
type StatFunc func(name string) (os.FileInfo, error)

// Reporter checks for the schema and seed assets and prints what a user
// should do next.
type Reporter struct {
	Dir   string // base directory for relative paths; empty means cwd
	Paths []string
	Tag   string
	Stat  StatFunc
}

// NewReporter returns a Reporter for the two default assets.
func NewReporter() *Reporter {
	return &Reporter{
		Paths: []string{DefaultSchemaFile, DefaultSeedFile},
		Tag:   DefaultTag,
		Stat:  os.Stat,
	}
}

// Check stats every path once. Any stat error, not only ErrNotExist,
// counts as missing.
func (r *Reporter) Check() []Asset {
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}
	assets := make([]Asset, 0, len(r.Paths))
	for _, p := range r.Paths {
		if p == "" {
			assets = append(assets, Asset{Path: p})
			continue
		}
		_, err := stat(r.Resolve(p))
		assets = append(assets, Asset{Path: p, Found: err == nil})
	}
	return assets
}

// Resolve returns the on-disk location of a configured path. An empty
// path stays empty so it never resolves to Dir itself.
func (r *Reporter) Resolve(p string) string {
	if p == "" || r.Dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.Dir, p)
}

// Report runs Check and writes the full setup summary to w.
func (r *Reporter) Report(w io.Writer) []Asset {
	assets := r.Check()

	r.Println(w, "GlobalTrotters Database Setup")
	r.Println(w, "================================")
	fmt.Fprintln(w)

	r.WriteAssets(w, assets)

	fmt.Fprintln(w)
	r.Println(w, "Database will be automatically created when you first use the app")
	r.Println(w, "The SQL scripts will be executed client-side using sql.js")
	fmt.Fprintln(w)
	r.Println(w, "To use the app:")
	r.Println(w, "1. Sign up for a new account")
	r.Println(w, "2. The database will be initialized in your browser's localStorage")
	r.Println(w, "3. Start creating trips!")

	return assets
}

// WriteAssets writes one found/missing line per asset.
func (r *Reporter) WriteAssets(w io.Writer, assets []Asset) {
	for _, a := range assets {
		if a.Found {
			r.Println(w, "✓ Found "+a.Path)
		} else {
			r.Println(w, "✗ Missing "+a.Path)
		}
	}
}

// Ready writes the short notice that the scripts are in place and run on
// first app load.
func (r *Reporter) Ready(w io.Writer) {
	r.Println(w, "Database initialization scripts are ready")
	r.Println(w, "The database will be created and seeded when you first run the app")
	r.Println(w, "SQL scripts location: "+joinPaths(r.Paths))
}

// Println writes line prefixed with the reporter tag.
func (r *Reporter) Println(w io.Writer, line string) {
	if r.Tag == "" {
		fmt.Fprintln(w, line)
		return
	}
	fmt.Fprintln(w, r.Tag, line)
}

func joinPaths(paths []string) string {
	switch len(paths) {
	case 0:
		return ""
	case 1:
		return paths[0]
	}
	out := paths[0]
	for _, p := range paths[1 : len(paths)-1] {
		out += ", " + p
	}
	return out + " and " + paths[len(paths)-1]
}
