// Package token holds the lexical token model shared by the tokenizer engines
// and the search pipeline.
package token

import "strings"

// Kind classifies a token. The set mirrors the classic C tokenizer kinds.
type Kind uint8

const (
	Punctuation Kind = iota
	Keyword
	Identifier
	Literal
	Comment
	Unknown
)

var kindNames = [...]string{
	Punctuation: "punctuation",
	Keyword:     "keyword",
	Identifier:  "identifier",
	Literal:     "literal",
	Comment:     "comment",
	Unknown:     "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// Code is the one-letter tag printed next to a matched line.
func (k Kind) Code() string {
	switch k {
	case Punctuation:
		return "P"
	case Keyword:
		return "K"
	case Identifier:
		return "I"
	case Literal:
		return "L"
	case Comment:
		return "C"
	default:
		return "U"
	}
}

// Token is one classified lexical unit. Line and Column are 1-based and point
// at the first byte of Spelling; Spelling may span several lines.
type Token struct {
	Kind     Kind
	Spelling string
	Line     int
	Column   int
}

// Mask selects token kinds. The zero Mask selects every kind.
type Mask uint8

const (
	MaskPunctuation Mask = 1 << iota
	MaskKeyword
	MaskIdentifier
	MaskLiteral
	MaskComment
	MaskUnknown
)

// MaskAny matches every kind.
const MaskAny Mask = 0

func (k Kind) bit() Mask {
	switch k {
	case Punctuation:
		return MaskPunctuation
	case Keyword:
		return MaskKeyword
	case Identifier:
		return MaskIdentifier
	case Literal:
		return MaskLiteral
	case Comment:
		return MaskComment
	default:
		return MaskUnknown
	}
}

// Matches reports whether kind k passes the mask.
func (m Mask) Matches(k Kind) bool {
	if m == MaskAny {
		return true
	}
	return m&k.bit() != 0
}

var letterMasks = map[rune]Mask{
	'p': MaskPunctuation,
	'k': MaskKeyword,
	'i': MaskIdentifier,
	'l': MaskLiteral,
	'c': MaskComment,
	'u': MaskUnknown,
}

// ParseMask builds a mask from kind letters (p, k, i, l, c, u). Letters it
// does not know are returned so the caller can warn about them.
func ParseMask(letters string) (Mask, []rune) {
	var (
		m       Mask
		unknown []rune
	)
	for _, r := range letters {
		bit, ok := letterMasks[r]
		if !ok {
			unknown = append(unknown, r)
			continue
		}
		m |= bit
	}
	return m, unknown
}

func (m Mask) String() string {
	if m == MaskAny {
		return "any"
	}
	var b strings.Builder
	for _, k := range []Kind{Punctuation, Keyword, Identifier, Literal, Comment, Unknown} {
		if m&k.bit() != 0 {
			b.WriteString(strings.ToLower(k.Code()))
		}
	}
	return b.String()
}
