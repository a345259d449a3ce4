package search

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tkgrep/internal/token"
	"tkgrep/internal/tokenizer"
)

type runResult struct {
	out  string
	logs string
	err  error
}

func runSearch(t *testing.T, cfg Config, tok tokenizer.Tokenizer, paths ...string) runResult {
	t.Helper()
	var out, logs bytes.Buffer
	s, err := New(cfg, tok, &out, zerolog.New(&logs))
	require.NoError(t, err)
	err = s.Run(context.Background(), paths)
	return runResult{out: out.String(), logs: logs.String(), err: err}
}

func TestSearchIdentifierWithContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "five.c")
	require.NoError(t, os.WriteFile(path, []byte("int a;\nint b;\nint foo;\nint c;\nint d;\n"), 0o644))

	tok := fakeTokenizer{byName: map[string][]token.Token{
		"five.c": {
			{Kind: token.Keyword, Spelling: "int", Line: 3, Column: 1},
			ident("foo", 3, 5),
			{Kind: token.Comment, Spelling: "// foo", Line: 5, Column: 8},
		},
	}}
	cfg := Config{Pattern: "foo", Target: token.MaskIdentifier, Before: 1, After: 1}

	res := runSearch(t, cfg, tok, path)
	require.NoError(t, res.err)
	want := path + ":2:  int b;\n" +
		path + ":3:I int foo;\n" +
		path + ":4:  int c;\n"
	require.Equal(t, want, res.out)
}

func TestSearchFirstTokenOnLineWins(t *testing.T) {
	tok := fakeTokenizer{byName: map[string][]token.Token{
		"x.c": {
			ident("foo", 1, 1),
			{Kind: token.Punctuation, Spelling: "(", Line: 1, Column: 4},
			ident("foo", 1, 5),
		},
	}}

	s, err := New(Config{Pattern: "foo"}, tok, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)
	idx, err := s.Collect(tok.byName["x.c"])
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())
	loc, ok := idx.Find(1)
	require.True(t, ok)
	require.Equal(t, 1, loc.Column)
}

func TestCollectResolvesMultiLineTokens(t *testing.T) {
	s, err := New(Config{Pattern: "TODO", Target: token.MaskComment}, fakeTokenizer{}, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)

	idx, err := s.Collect([]token.Token{
		ident("TODO_ident", 1, 1),
		{Kind: token.Comment, Spelling: "/*\n * TODO fix\n */", Line: 4, Column: 3},
	})
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())

	loc, ok := idx.Find(5)
	require.True(t, ok)
	require.Equal(t, Location{Line: 5, Kind: token.Comment, Column: 4, Length: 4}, loc)
}

func TestCollectTrimsMatchToFirstLine(t *testing.T) {
	s, err := New(Config{Pattern: `a\s+b`}, fakeTokenizer{}, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)

	idx, err := s.Collect([]token.Token{
		{Kind: token.Literal, Spelling: "`xa \n  b`", Line: 2, Column: 7},
	})
	require.NoError(t, err)
	loc, ok := idx.Find(2)
	require.True(t, ok)
	require.Equal(t, 9, loc.Column)
	require.Equal(t, 2, loc.Length)
}

func TestSearchCountMode(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	require.NoError(t, os.WriteFile(a, []byte("foo\nbar\nfoo\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("bar\n"), 0o644))

	tok := fakeTokenizer{byName: map[string][]token.Token{
		"a.go": {ident("foo", 1, 1), ident("bar", 2, 1), ident("foo", 3, 1)},
		"b.go": {ident("bar", 1, 1)},
	}}

	res := runSearch(t, Config{Pattern: "foo", OnlyCount: true}, tok, a, b)
	require.NoError(t, res.err)
	require.Equal(t, "2\n0\n", res.out)
}

func TestSearchDirectoryWithoutRecursion(t *testing.T) {
	dir := t.TempDir()

	res := runSearch(t, Config{Pattern: "foo"}, fakeTokenizer{}, dir)
	require.NoError(t, res.err)
	require.Empty(t, res.out)
	require.Contains(t, res.logs, "is a directory")

	res = runSearch(t, Config{Pattern: "foo", Quiet: true}, fakeTokenizer{}, dir)
	require.NoError(t, res.err)
	require.Empty(t, res.logs)
}

func TestSearchContinuesAfterEntryErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.go")
	good := filepath.Join(dir, "good.go")
	require.NoError(t, os.WriteFile(broken, []byte("foo\n"), 0o644))
	require.NoError(t, os.WriteFile(good, []byte("foo\n"), 0o644))

	tok := fakeTokenizer{
		byName: map[string][]token.Token{"good.go": {ident("foo", 1, 1)}},
		fail:   map[string]error{"broken.go": errors.New("cannot parse translation unit")},
	}

	res := runSearch(t, Config{Pattern: "foo"}, tok, filepath.Join(dir, "missing.go"), broken, good)
	require.NoError(t, res.err)
	require.Equal(t, good+":1:I foo\n", res.out)
	require.Contains(t, res.logs, "missing.go")
	require.Contains(t, res.logs, "cannot parse translation unit")
}

func TestSearchRecursiveDisplayNames(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"one.go":     "foo\n",
		"sub/two.go": "x\nfoo\n",
	})
	tok := fakeTokenizer{byName: map[string][]token.Token{
		"one.go": {ident("foo", 1, 1)},
		"two.go": {ident("x", 1, 1), ident("foo", 2, 1)},
	}}

	t.Chdir(dir)

	res := runSearch(t, Config{Pattern: "foo", Recursive: true}, tok, ".")
	require.NoError(t, res.err)

	rows := strings.Split(strings.TrimSuffix(res.out, "\n"), "\n")
	require.ElementsMatch(t, []string{"./one.go:1:I foo", "./sub/two.go:2:I foo"}, rows)
}

func TestSearchHighlightNeedsTerminal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "h.go")
	require.NoError(t, os.WriteFile(path, []byte("x foo\n"), 0o644))
	tok := fakeTokenizer{byName: map[string][]token.Token{"h.go": {ident("foo", 1, 3)}}}
	marker := Marker{Start: "<", Stop: ">"}

	res := runSearch(t, Config{Pattern: "foo", Color: true, Marker: marker}, tok, path)
	require.Equal(t, path+":1:I x foo\n", res.out)

	res = runSearch(t, Config{Pattern: "foo", Color: true, StdoutIsTTY: true, Marker: marker}, tok, path)
	require.Equal(t, path+":1:I x <foo>\n", res.out)
}

func TestSearchRealTokenizer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	src := "package main\n\n// helper does foo\nfunc helper() string {\n\treturn \"foo\"\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res := runSearch(t, Config{Pattern: "foo", Target: token.MaskComment | token.MaskLiteral}, nil, path)
	require.NoError(t, res.err)
	require.Equal(t, path+":3:C // helper does foo\n"+path+":5:L \treturn \"foo\"\n", res.out)
}

func TestSearchPlainTextMatchesEveryLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo here\nbar\nfoo there\n"), 0o644))

	res := runSearch(t, Config{Pattern: "foo"}, nil, path)
	require.NoError(t, res.err)
	require.Equal(t, path+":1:U foo here\n"+path+":3:U foo there\n", res.out)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "no pattern", cfg: Config{}, want: "PATTERN is not specified"},
		{name: "negative before", cfg: Config{Pattern: "x", Before: -1}, want: "-1: invalid context length argument"},
		{name: "negative after", cfg: Config{Pattern: "x", After: -3}, want: "-3: invalid context length argument"},
		{name: "malformed pattern", cfg: Config{Pattern: "[a-"}, want: "invalid pattern"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg, fakeTokenizer{}, &bytes.Buffer{}, zerolog.Nop())
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestRunWithoutFiles(t *testing.T) {
	s, err := New(Config{Pattern: "x"}, fakeTokenizer{}, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)
	require.ErrorContains(t, s.Run(context.Background(), nil), "FILE is not specified")
}
