// Package search finds tokens whose spelling matches a pattern and prints the
// matching source lines with context.
package search

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"tkgrep/internal/lang"
	"tkgrep/internal/readfile"
	"tkgrep/internal/token"
	"tkgrep/internal/tokenizer"
)

// Searcher runs the per-file pipeline: read, tokenize, filter by kind, match
// the spelling, resolve the position, index by line and render. Files are
// processed one at a time in operand order.
type Searcher struct {
	cfg       Config
	matcher   *Matcher
	tokenizer tokenizer.Tokenizer
	out       *bufio.Writer
	renderer  *Renderer
	walker    *Walker
	log       zerolog.Logger

	err error
}

// New validates cfg and compiles its pattern; both failures are fatal. A nil
// tok selects the engine named by cfg.Engine.
func New(cfg Config, tok tokenizer.Tokenizer, out io.Writer, logger zerolog.Logger) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	matcher, err := CompileMatcher(cfg.Pattern, cfg.IgnoreCase, cfg.MatchTimeout)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		tok = tokenizer.NewRegistry(cfg.Engine)
	}

	bw := bufio.NewWriter(out)
	s := &Searcher{
		cfg:       cfg,
		matcher:   matcher,
		tokenizer: tok,
		out:       bw,
		renderer:  NewRenderer(bw, cfg.renderOptions()),
		log:       logger,
	}
	s.walker = &Walker{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		OnError: s.reportEntry,
	}
	return s, nil
}

// Run searches every operand. Per-entry failures are logged and skipped; the
// returned error is fatal (no operands, or the output cannot be written).
func (s *Searcher) Run(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("FILE is not specified")
	}

	for _, p := range paths {
		if s.err != nil {
			break
		}
		if s.cfg.Recursive {
			s.walker.Walk(p, p, func(realPath string, display string) {
				s.visit(ctx, realPath, display)
			})
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			s.reportEntry(p, errors.Wrap(err, "stat"))
			continue
		}
		if info.IsDir() {
			s.reportEntry(p, errors.New("is a directory"))
			continue
		}
		s.visit(ctx, p, p)
	}
	return s.err
}

func (s *Searcher) visit(ctx context.Context, realPath string, display string) {
	if s.err != nil {
		return
	}
	if err := s.SearchFile(ctx, realPath, display); err != nil {
		s.reportEntry(display, err)
	}
	if err := s.out.Flush(); err != nil {
		s.err = errors.Wrap(err, "write output")
	}
}

// SearchFile runs the whole pipeline for one file, printing it under the
// display name.
func (s *Searcher) SearchFile(ctx context.Context, realPath string, display string) error {
	f, err := readfile.Load(realPath)
	if err != nil {
		return err
	}

	src := tokenizer.Source{
		Path:    realPath,
		Lang:    lang.DetectWithShebang(realPath, f.FirstLine()),
		Content: f.Content,
	}
	tokens, err := s.tokenizer.Tokenize(ctx, src)
	if err != nil {
		return errors.Wrap(err, "tokenize")
	}

	idx, err := s.Collect(tokens)
	if err != nil {
		return err
	}

	s.log.Debug().
		Str("path", display).
		Str("lang", string(src.Lang)).
		Str("size", humanize.Bytes(uint64(len(f.Content)))).
		Int("tokens", len(tokens)).
		Int("lines", idx.Len()).
		Msg("searched file")

	return s.renderer.Render(display, f.Lines, idx)
}

// Collect indexes the tokens that pass the kind filter and match the
// pattern. Tokens must be in file order for the first match on a line to win.
func (s *Searcher) Collect(tokens []token.Token) (*Index, error) {
	idx := NewIndex()
	for _, tok := range tokens {
		if !s.cfg.Target.Matches(tok.Kind) {
			continue
		}
		offset, length, ok, err := s.matcher.Find(tok.Spelling)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		line, col := ResolvePosition(tok.Spelling, tok.Line, tok.Column, offset)
		idx.Insert(Location{
			Line:   line,
			Kind:   tok.Kind,
			Column: col,
			Length: firstLineLength(tok.Spelling[offset : offset+length]),
		})
	}
	return idx, nil
}

// firstLineLength trims a match that crosses a newline to the part on its
// first line, which is the only part highlighted.
func firstLineLength(matched string) int {
	if i := strings.IndexAny(matched, "\r\n"); i >= 0 {
		return i
	}
	return len(matched)
}

func (s *Searcher) reportEntry(display string, err error) {
	if s.cfg.Quiet {
		return
	}
	s.log.Error().Err(err).Str("path", display).Msg("skipped")
}
