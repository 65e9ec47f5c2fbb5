// Package entry loads entry sets — (key, payload expression) pairs —
// from YAML and JSON files, plus a few embedded builtin sets.
//
// Loading preserves document order, which matters because a duplicate
// key registered later overwrites the earlier payload.
package entry

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/munchgen/munchgen/pkg/trie"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Loader reads entry sets from files or an embedded filesystem.
type Loader struct {
	fs fs.FS

	// QuoteValues treats loaded values as plain replacement text and
	// wraps each one into a Go string literal. Without it, values are
	// taken verbatim as Go expressions.
	QuoteValues bool
}

// NewLoader creates a loader backed by the embedded builtin sets.
func NewLoader() *Loader {
	return &Loader{fs: builtinFS}
}

// NewLoaderWithFS creates a loader over a custom filesystem for
// builtin lookup.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// LoadFile loads entries from path, dispatching on the extension:
// .yaml/.yml or .json.
func (l *Loader) LoadFile(p string) ([]trie.Entry, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", p, err)
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return l.LoadYAML(data)
	case ".json":
		return l.LoadJSON(data)
	default:
		return nil, fmt.Errorf("unsupported entry file extension %q", filepath.Ext(p))
	}
}

// LoadYAML loads entries from YAML bytes. The expected shape is:
//
//	entries:
//	  - key: "&amp;"
//	    value: "'&'"
//
// An empty entries list is legal; the compilers accept zero entries.
func (l *Loader) LoadYAML(data []byte) ([]trie.Entry, error) {
	var file yamlEntriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	entries := make([]trie.Entry, 0, len(file.Entries))
	for _, ye := range file.Entries {
		entries = append(entries, trie.Entry{
			Key:   []byte(ye.Key),
			Value: l.value(ye.Value),
		})
	}
	return entries, nil
}

// LoadJSON loads entries from a JSON object mapping key to value:
//
//	{"&amp;": "'&'", "&lt;": "'<'"}
func (l *Loader) LoadJSON(data []byte) ([]trie.Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse JSON: invalid document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("expected a JSON object of key/value pairs")
	}

	var entries []trie.Entry
	var badKey string
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			badKey = key.String()
			return false
		}
		entries = append(entries, trie.Entry{
			Key:   []byte(key.String()),
			Value: l.value(value.String()),
		})
		return true
	})
	if badKey != "" {
		return nil, fmt.Errorf("entry %q: value must be a string", badKey)
	}
	return entries, nil
}

// LoadBuiltin loads one of the embedded builtin sets by name, e.g.
// "html-entities".
func (l *Loader) LoadBuiltin(name string) ([]trie.Entry, error) {
	data, err := fs.ReadFile(l.fs, path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown builtin entry set %q", name)
	}
	return l.LoadYAML(data)
}

// Builtins lists the available builtin entry set names, sorted.
func (l *Loader) Builtins() []string {
	var names []string
	matches, err := fs.Glob(l.fs, "builtin/*.yaml")
	if err != nil {
		return nil
	}
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (l *Loader) value(v string) string {
	if l.QuoteValues {
		return strconv.Quote(v)
	}
	return v
}
