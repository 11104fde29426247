//go:build ignore

// gen-grammar-manifest walks a grammar directory, hashes each .so/.dylib,
// and writes the manifest.json that maps dialects to file extensions.
//
// Usage:
//
//	go run scripts/gen-grammar-manifest.go --dir .jsgettext/grammars \
//	    --ext flow=.flow,.js.flow --ext hermes=.hjs
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type GrammarInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version,omitempty"`
	Extensions []string `json:"extensions"`
	SHA256     string   `json:"sha256,omitempty"`
}

type Manifest struct {
	Version  int                    `json:"version"`
	Grammars map[string]GrammarInfo `json:"grammars"`
}

// extFlags collects repeated --ext dialect=.a,.b flags.
type extFlags map[string][]string

func (e extFlags) String() string { return fmt.Sprint(map[string][]string(e)) }

func (e extFlags) Set(v string) error {
	name, list, ok := strings.Cut(v, "=")
	if !ok || name == "" || list == "" {
		return fmt.Errorf("want dialect=.ext[,.ext], got %q", v)
	}
	for _, ext := range strings.Split(list, ",") {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
		e[name] = append(e[name], ext)
	}
	return nil
}

func main() {
	exts := extFlags{}
	dir := flag.String("dir", ".jsgettext/grammars", "Directory containing grammar .so/.dylib files")
	out := flag.String("out", "", "Output manifest file (default: <dir>/manifest.json)")
	flag.Var(exts, "ext", "Extensions for a dialect: dialect=.ext[,.ext] (repeatable)")
	flag.Parse()

	if *out == "" {
		*out = filepath.Join(*dir, "manifest.json")
	}

	manifest := Manifest{
		Version:  1,
		Grammars: make(map[string]GrammarInfo),
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading directory %s: %v\n", *dir, err)
		os.Exit(1)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".so" && ext != ".dylib" {
			continue
		}
		dialect := strings.TrimSuffix(name, ext)

		path := filepath.Join(*dir, name)
		hash, err := hashFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error hashing %s: %v\n", path, err)
			continue
		}

		list := exts[dialect]
		if len(list) == 0 {
			fmt.Fprintf(os.Stderr, "warning: %s has no --ext mapping; only --dialect will select it\n", dialect)
		}
		sort.Strings(list)
		manifest.Grammars[dialect] = GrammarInfo{
			Name:       dialect,
			Extensions: append([]string{}, list...),
			SHA256:     hash,
		}
	}

	for dialect := range exts {
		if _, ok := manifest.Grammars[dialect]; !ok {
			fmt.Fprintf(os.Stderr, "warning: --ext given for %s but no library found\n", dialect)
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling manifest: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d grammars\n", *out, len(manifest.Grammars))
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
