// Package tokenizer turns source files into classified token streams. Two
// engines are available: tree-sitter grammars for the languages that ship
// one, and chroma lexers for everything else.
package tokenizer

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"tkgrep/internal/lang"
	"tkgrep/internal/token"
)

type Engine string

const (
	EngineAuto       Engine = "auto"
	EngineTreeSitter Engine = "treesitter"
	EngineChroma     Engine = "chroma"
)

func ParseEngine(v string) (Engine, error) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", string(EngineAuto):
		return EngineAuto, nil
	case string(EngineTreeSitter), "tree-sitter":
		return EngineTreeSitter, nil
	case string(EngineChroma):
		return EngineChroma, nil
	default:
		return "", errors.Errorf("invalid engine %q (use auto, treesitter or chroma)", v)
	}
}

// Source is one file handed to a tokenizer.
type Source struct {
	Path    string
	Lang    lang.ID
	Content []byte
}

// Tokenizer returns the tokens of src in file order.
type Tokenizer interface {
	Tokenize(ctx context.Context, src Source) ([]token.Token, error)
}

// Registry dispatches each source to an engine. It reuses one tree-sitter
// parser and is not safe for concurrent use.
type Registry struct {
	engine     Engine
	treeSitter *TreeSitter
	chroma     *Chroma
}

func NewRegistry(engine Engine) *Registry {
	if engine == "" {
		engine = EngineAuto
	}
	return &Registry{
		engine:     engine,
		treeSitter: NewTreeSitter(),
		chroma:     NewChroma(),
	}
}

func (r *Registry) Tokenize(ctx context.Context, src Source) ([]token.Token, error) {
	switch r.engine {
	case EngineTreeSitter:
		return r.treeSitter.Tokenize(ctx, src)
	case EngineChroma:
		return r.chroma.Tokenize(ctx, src)
	}
	if r.treeSitter.Supports(src.Lang) {
		return r.treeSitter.Tokenize(ctx, src)
	}
	return r.chroma.Tokenize(ctx, src)
}
