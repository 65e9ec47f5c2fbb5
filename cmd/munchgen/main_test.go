package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCmd returns a command wired to in-memory output streams.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

func resetGenerateFlags() {
	genEntryFiles = nil
	genBuiltin = ""
	genStrategy = "tree"
	genInput = "slice"
	genFnName = "matchBytes"
	genReturnType = "string"
	genIndex = false
	genDoc = ""
	genNoMustUse = false
	genStub = false
	genGuard = ""
	genStubGuard = ""
	genQuote = false
	genOut = ""
	quiet = false
}

func TestRunVersion(t *testing.T) {
	cmd, out, _ := newTestCmd()
	require.NoError(t, runVersion(cmd, nil))

	got := out.String()
	assert.Contains(t, got, "munchgen v")
	assert.Contains(t, got, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestRunGenerate_KeyValueArgs(t *testing.T) {
	resetGenerateFlags()
	genReturnType = "int"
	genQuote = false

	cmd, out, _ := newTestCmd()
	require.NoError(t, runGenerate(cmd, []string{"a=1", "ab=2"}))

	got := out.String()
	assert.Contains(t, got, "func matchBytes(input []byte) (match int, rest []byte, ok bool) {")
	assert.Contains(t, got, "return 2, input[2:], true")
	assert.Contains(t, got, "return 1, input[1:], true")
}

func TestRunGenerate_FlatCursor(t *testing.T) {
	resetGenerateFlags()
	genStrategy = "flat"
	genInput = "cursor"
	genReturnType = "int"

	cmd, out, _ := newTestCmd()
	require.NoError(t, runGenerate(cmd, []string{"a=1"}))

	got := out.String()
	assert.Contains(t, got, "func matchBytes(c cursor.Cursor) (match int, ok bool) {")
	assert.Contains(t, got, "mark := c.Mark()")
}

func TestRunGenerate_QuoteWrapsValues(t *testing.T) {
	resetGenerateFlags()
	genQuote = true

	cmd, out, _ := newTestCmd()
	require.NoError(t, runGenerate(cmd, []string{"if=KwIf"}))

	assert.Contains(t, out.String(), `return "KwIf", input[2:], true`)
}

func TestRunGenerate_WritesFile(t *testing.T) {
	resetGenerateFlags()
	genReturnType = "int"
	genOut = filepath.Join(t.TempDir(), "matcher.go")

	cmd, out, errOut := newTestCmd()
	require.NoError(t, runGenerate(cmd, []string{"a=1"}))

	data, err := os.ReadFile(genOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), "func matchBytes(")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "wrote 1-entry tree/slice matcher")
}

func TestRunGenerate_QuietSuppressesSummary(t *testing.T) {
	resetGenerateFlags()
	genOut = filepath.Join(t.TempDir(), "matcher.go")
	quiet = true

	cmd, _, errOut := newTestCmd()
	require.NoError(t, runGenerate(cmd, []string{"a=1"}))
	assert.Empty(t, errOut.String())
}

func TestRunGenerate_Validation(t *testing.T) {
	cases := []struct {
		name  string
		setup func()
		arg   string
		want  string
	}{
		{
			name:  "unknown strategy",
			setup: func() { genStrategy = "hash" },
			arg:   "a=1",
			want:  `unknown strategy "hash"`,
		},
		{
			name:  "unknown input model",
			setup: func() { genInput = "channel" },
			arg:   "a=1",
			want:  `unknown input model "channel"`,
		},
		{
			name:  "index with tree",
			setup: func() { genIndex = true },
			arg:   "a=1",
			want:  "--index applies only to --strategy flat",
		},
		{
			name: "index with cursor",
			setup: func() {
				genStrategy = "flat"
				genInput = "cursor"
				genIndex = true
			},
			arg:  "a=1",
			want: "--index applies only to --input slice",
		},
		{
			name:  "guard without stub",
			setup: func() { genGuard = "x" },
			arg:   "a=1",
			want:  "--guard and --stub-guard require --stub",
		},
		{
			name: "guard without stub-guard",
			setup: func() {
				genStub = true
				genGuard = "x"
			},
			arg:  "a=1",
			want: "--guard and --stub-guard must be set together",
		},
		{
			name:  "malformed argument",
			setup: func() {},
			arg:   "notapair",
			want:  `argument "notapair" is not key=value`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetGenerateFlags()
			tc.setup()

			cmd, _, _ := newTestCmd()
			err := runGenerate(cmd, []string{tc.arg})
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestCollectEntries_ArgumentsWin(t *testing.T) {
	resetGenerateFlags()

	dir := t.TempDir()
	p := filepath.Join(dir, "set.yaml")
	require.NoError(t, os.WriteFile(p, []byte("entries:\n  - key: a\n    value: \"file\"\n"), 0o644))
	genEntryFiles = []string{p}

	entries, err := collectEntries([]string{"a=arg"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// File entries load first, arguments last, so the argument payload
	// overwrites during trie insertion.
	assert.Equal(t, "file", entries[0].Value)
	assert.Equal(t, "arg", entries[1].Value)
}

func TestCollectEntries_Builtin(t *testing.T) {
	resetGenerateFlags()
	genBuiltin = "html-entities"

	entries, err := collectEntries(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	genBuiltin = "no-such-set"
	_, err = collectEntries(nil)
	assert.ErrorContains(t, err, "unknown builtin entry set")
}

func TestRunEntries_Builtins(t *testing.T) {
	entriesFiles = nil
	entriesBuiltin = ""
	entriesFormat = "table"
	entriesList = true
	defer func() { entriesList = false }()

	cmd, out, _ := newTestCmd()
	require.NoError(t, runEntries(cmd, nil))
	assert.Contains(t, out.String(), "html-entities")
}

func TestRunEntries_Table(t *testing.T) {
	entriesFiles = nil
	entriesBuiltin = "html-entities"
	entriesFormat = "table"
	entriesList = false
	defer func() { entriesBuiltin = "" }()

	cmd, out, _ := newTestCmd()
	require.NoError(t, runEntries(cmd, nil))

	got := out.String()
	assert.Contains(t, got, "Key")
	assert.Contains(t, got, `"&amp;"`)
}

func TestRunEntries_JSON(t *testing.T) {
	entriesFiles = nil
	entriesBuiltin = "html-entities"
	entriesFormat = "json"
	entriesList = false
	defer func() {
		entriesBuiltin = ""
		entriesFormat = "table"
	}()

	cmd, out, _ := newTestCmd()
	require.NoError(t, runEntries(cmd, nil))

	var decoded []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.NotEmpty(t, decoded)

	keys := make([]string, 0, len(decoded))
	for _, e := range decoded {
		keys = append(keys, e.Key)
	}
	assert.Contains(t, keys, "&amp;")
}

func TestRunEntries_NothingToShow(t *testing.T) {
	entriesFiles = nil
	entriesBuiltin = ""
	entriesFormat = "table"
	entriesList = false

	cmd, _, _ := newTestCmd()
	err := runEntries(cmd, nil)
	assert.ErrorContains(t, err, "nothing to show")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, strings.Fields(c.Use)[0])
	}
	assert.Contains(t, names, "generate")
	assert.Contains(t, names, "entries")
	assert.Contains(t, names, "version")
}
