package tokenizer

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"tkgrep/internal/token"
)

func classifyLeaf(node *sitter.Node, nodeType string, text string) token.Kind {
	lexeme := strings.ToLower(strings.TrimSpace(text))

	if nodeType == "error" || node.IsMissing() {
		return token.Unknown
	}
	if isCommentType(nodeType) {
		return token.Comment
	}
	if isLiteralType(nodeType) || literalWords[lexeme] {
		return token.Literal
	}

	if !node.IsNamed() {
		if isWord(strings.TrimPrefix(lexeme, "#")) {
			return token.Keyword
		}
		if looksLikeOperator(lexeme) {
			return token.Punctuation
		}
		return token.Unknown
	}

	if strings.HasSuffix(nodeType, "keyword") || nodeType == "primitive_type" || nodeType == "predefined_type" {
		return token.Keyword
	}
	if isIdentifierNode(nodeType) {
		return token.Identifier
	}
	if keywordSet[lexeme] {
		return token.Keyword
	}
	if looksLikeOperator(lexeme) {
		return token.Punctuation
	}
	return token.Unknown
}

func isCommentType(nodeType string) bool {
	return strings.Contains(nodeType, "comment")
}

func isLiteralType(nodeType string) bool {
	switch nodeType {
	case "concatenated_string", "composite_literal", "func_literal":
		return false
	}
	for _, part := range literalTypeParts {
		if strings.Contains(nodeType, part) {
			return true
		}
	}
	return strings.HasSuffix(nodeType, "_literal")
}

var literalTypeParts = []string{
	"string", "char", "rune", "number", "integer", "float", "imaginary", "heredoc", "regex",
}

func isIdentifierNode(nodeType string) bool {
	return strings.HasSuffix(nodeType, "identifier") || strings.HasSuffix(nodeType, "name") || nodeType == "word"
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func looksLikeOperator(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '^', '~', ':', ';', ',', '.', '?',
			'(', ')', '[', ']', '{', '}', '@', '#', '$', '\\', '"', '\'', '`':
		default:
			return false
		}
	}
	return true
}

var literalWords = map[string]bool{
	"true": true, "false": true, "nil": true, "null": true, "none": true, "undefined": true,
}

var keywordSet = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true, "def": true,
	"default": true, "defer": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "fallthrough": true, "finally": true,
	"fn": true, "for": true, "from": true, "func": true, "function": true,
	"if": true, "impl": true, "import": true, "in": true, "include": true,
	"interface": true, "let": true, "loop": true, "match": true, "mod": true,
	"module": true, "mut": true, "namespace": true, "new": true, "package": true,
	"pub": true, "raise": true, "return": true, "struct": true, "switch": true,
	"trait": true, "try": true, "type": true, "use": true, "var": true,
	"while": true, "with": true, "yield": true,
}
