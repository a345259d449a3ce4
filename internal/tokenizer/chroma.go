package tokenizer

import (
	"context"
	"path/filepath"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/pkg/errors"

	"tkgrep/internal/token"
)

// Chroma tokenizes with chroma's regex lexers. It covers every language
// chroma knows and falls back to plaintext, whose tokens are Unknown.
// Unclassified text is split into one token per line, so plain files match
// line by line.
type Chroma struct{}

func NewChroma() *Chroma {
	return &Chroma{}
}

func (c *Chroma) Lexer(src Source) chroma.Lexer {
	lexer := lexers.Match(filepath.Base(src.Path))
	if lexer == nil {
		lexer = lexers.Analyse(string(src.Content))
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func (c *Chroma) Tokenize(_ context.Context, src Source) ([]token.Token, error) {
	lexer := c.Lexer(src)
	it, err := lexer.Tokenise(nil, string(src.Content))
	if err != nil {
		return nil, errors.Wrapf(err, "tokenise with %s lexer", lexer.Config().Name)
	}

	var tokens []token.Token
	line, col := 1, 1
	for tok := it(); tok != chroma.EOF; tok = it() {
		value := tok.Value
		startLine, startCol := line, col
		line, col = advance(value, line, col)

		kind := chromaKind(tok.Type)
		if kind == token.Unknown {
			tokens = appendLines(tokens, value, startLine, startCol)
			continue
		}

		trimmed := strings.TrimLeft(value, " \t\r\n")
		if trimmed == "" {
			continue
		}
		startLine, startCol = advance(value[:len(value)-len(trimmed)], startLine, startCol)

		tokens = append(tokens, token.Token{
			Kind:     kind,
			Spelling: strings.TrimRight(trimmed, " \t\r\n"),
			Line:     startLine,
			Column:   startCol,
		})
	}
	return tokens, nil
}

// appendLines emits each non-blank line of s as an Unknown token, trimmed of
// surrounding whitespace.
func appendLines(tokens []token.Token, s string, line int, col int) []token.Token {
	for s != "" {
		text, rest, found := strings.Cut(s, "\n")
		trimmed := strings.TrimLeft(text, " \t\r")
		lead := len(text) - len(trimmed)
		trimmed = strings.TrimRight(trimmed, " \t\r")
		if trimmed != "" {
			tokens = append(tokens, token.Token{
				Kind:     token.Unknown,
				Spelling: trimmed,
				Line:     line,
				Column:   col + lead,
			})
		}
		if !found {
			break
		}
		s = rest
		line++
		col = 1
	}
	return tokens
}

func advance(s string, line int, col int) (int, int) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

func chromaKind(tt chroma.TokenType) token.Kind {
	switch tt.Category() {
	case chroma.Keyword:
		return token.Keyword
	case chroma.Name:
		return token.Identifier
	case chroma.Literal:
		return token.Literal
	case chroma.Comment:
		return token.Comment
	case chroma.Operator, chroma.Punctuation:
		return token.Punctuation
	default:
		return token.Unknown
	}
}
