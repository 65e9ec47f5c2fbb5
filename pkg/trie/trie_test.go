package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_SharedPrefix(t *testing.T) {
	root := New().
		AddString("a", "1").
		AddString("ab", "2")

	v, ok := root.Child('a').Value()
	require.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = root.Child('a').Child('b').Value()
	require.True(t, ok)
	assert.Equal(t, "2", v)

	// One shared path, not two.
	assert.Len(t, root.Children(), 1)
	assert.Equal(t, 2, root.Len())
}

func TestAdd_OverwriteLastWins(t *testing.T) {
	root := New().
		AddString("key", "first").
		AddString("key", "second")

	v, _, ok := root.Lookup([]byte("key"))
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, root.Len())
}

func TestAdd_EmptyKey(t *testing.T) {
	root := New().AddString("", "0")

	v, ok := root.Value()
	require.True(t, ok)
	assert.Equal(t, "0", v)
	assert.Nil(t, root.Children())
}

func TestExtend_OrderDecidesDuplicates(t *testing.T) {
	root := New().Extend([]Entry{
		{Key: []byte("x"), Value: "old"},
		{Key: []byte("y"), Value: "1"},
		{Key: []byte("x"), Value: "new"},
	})

	v, _, ok := root.Lookup([]byte("x"))
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestChildren_AscendingByteOrder(t *testing.T) {
	root := New().
		AddString("z", "3").
		AddString("a", "1").
		AddString("m", "2")

	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, byte('a'), children[0].Byte)
	assert.Equal(t, byte('m'), children[1].Byte)
	assert.Equal(t, byte('z'), children[2].Byte)
}

func TestEntries_RoundTrip(t *testing.T) {
	root := New().
		AddString("ab", "2").
		AddString("a", "1").
		AddString("", "0")

	entries := root.Entries()
	require.Len(t, entries, 3)
	// Lexicographic by key: "", "a", "ab".
	assert.Equal(t, "", string(entries[0].Key))
	assert.Equal(t, "0", entries[0].Value)
	assert.Equal(t, "a", string(entries[1].Key))
	assert.Equal(t, "ab", string(entries[2].Key))

	// Rebuilding from the flattened set reproduces the tree.
	rebuilt := New().Extend(entries)
	assert.Equal(t, root.Len(), rebuilt.Len())
	for _, e := range entries {
		v, n, ok := rebuilt.Lookup(e.Key)
		require.True(t, ok)
		assert.Equal(t, e.Value, v)
		assert.Equal(t, len(e.Key), n)
	}
}

func TestLookup_LongestMatchWins(t *testing.T) {
	root := New().
		AddString("a", "1").
		AddString("ab", "2")

	v, n, ok := root.Lookup([]byte("abc"))
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 2, n)
}

func TestLookup_FallsBackToShorterMatch(t *testing.T) {
	root := New().
		AddString("a", "1").
		AddString("ab", "2")

	// "ac": the deep branch dies on 'c', the confirmed "a" wins.
	v, n, ok := root.Lookup([]byte("ac"))
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, n)
}

func TestLookup_EmptyTrie(t *testing.T) {
	root := New()

	for _, input := range [][]byte{nil, []byte(""), []byte("xyz")} {
		_, n, ok := root.Lookup(input)
		assert.False(t, ok)
		assert.Equal(t, 0, n)
	}
}

func TestLookup_EmptyKeyMatchesWithoutConsuming(t *testing.T) {
	root := New().AddString("", "0")

	v, n, ok := root.Lookup([]byte("xyz"))
	require.True(t, ok)
	assert.Equal(t, "0", v)
	assert.Equal(t, 0, n)
}

func TestLookup_DeepFallback(t *testing.T) {
	root := New().
		AddString("aab", "T1").
		AddString("aa", "T2").
		AddString("ab", "T3").
		AddString("a", "T4")

	cases := []struct {
		input string
		value string
		n     int
	}{
		{"aab", "T1", 3},
		{"aac", "T2", 2},
		{"aa", "T2", 2},
		{"ab", "T3", 2},
		{"a", "T4", 1},
		{"ax", "T4", 1},
		{"b", "", 0},
		{"", "", 0},
	}
	for _, tc := range cases {
		v, n, ok := root.Lookup([]byte(tc.input))
		if tc.value == "" {
			assert.False(t, ok, "input %q", tc.input)
			assert.Equal(t, 0, n, "input %q", tc.input)
			continue
		}
		require.True(t, ok, "input %q", tc.input)
		assert.Equal(t, tc.value, v, "input %q", tc.input)
		assert.Equal(t, tc.n, n, "input %q", tc.input)
	}
}

func TestSortEntries_LongestFirstThenLexicographic(t *testing.T) {
	entries := []Entry{
		{Key: []byte("b"), Value: "4"},
		{Key: []byte("aa"), Value: "1"},
		{Key: []byte("a"), Value: "3"},
		{Key: []byte(""), Value: "5"},
		{Key: []byte("ab"), Value: "2"},
	}
	SortEntries(entries)

	var keys []string
	for _, e := range entries {
		keys = append(keys, string(e.Key))
	}
	assert.Equal(t, []string{"aa", "ab", "a", "b", ""}, keys)
}

func TestLen_CountsBinaryKeys(t *testing.T) {
	root := New().
		Add([]byte{0x00}, "zero").
		Add([]byte{0x00, 0xff}, "wide").
		Add([]byte{0xfe}, "high")

	if root.Len() != 3 {
		t.Errorf("expected 3 keys, got %d", root.Len())
	}

	v, n, ok := root.Lookup([]byte{0x00, 0xff, 0x01})
	require.True(t, ok)
	assert.Equal(t, "wide", v)
	assert.Equal(t, 2, n)
}
