package tokenizer

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	bashlang "github.com/smacker/go-tree-sitter/bash"
	clang "github.com/smacker/go-tree-sitter/c"
	cpplang "github.com/smacker/go-tree-sitter/cpp"
	golang "github.com/smacker/go-tree-sitter/golang"
	jslang "github.com/smacker/go-tree-sitter/javascript"
	python "github.com/smacker/go-tree-sitter/python"
	rust "github.com/smacker/go-tree-sitter/rust"
	toml "github.com/smacker/go-tree-sitter/toml"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
	yaml "github.com/smacker/go-tree-sitter/yaml"
	tszig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"

	"tkgrep/internal/lang"
	"tkgrep/internal/token"
)

// TreeSitter tokenizes with tree-sitter grammars. Every leaf of the syntax
// tree becomes a token, except comments and literals which are kept whole.
type TreeSitter struct {
	parser *sitter.Parser
	langs  map[lang.ID]*sitter.Language
}

func NewTreeSitter() *TreeSitter {
	return &TreeSitter{
		parser: sitter.NewParser(),
		langs: map[lang.ID]*sitter.Language{
			lang.Go:         golang.GetLanguage(),
			lang.Rust:       rust.GetLanguage(),
			lang.Python:     python.GetLanguage(),
			lang.JavaScript: jslang.GetLanguage(),
			lang.TypeScript: tslang.GetLanguage(),
			lang.TSX:        tsxlang.GetLanguage(),
			lang.YAML:       yaml.GetLanguage(),
			lang.TOML:       toml.GetLanguage(),
			lang.JSON:       sitter.NewLanguage(tsjson.Language()),
			lang.Bash:       bashlang.GetLanguage(),
			lang.C:          clang.GetLanguage(),
			lang.CPP:        cpplang.GetLanguage(),
			lang.Zig:        sitter.NewLanguage(tszig.Language()),
		},
	}
}

func (t *TreeSitter) Supports(id lang.ID) bool {
	language, ok := t.langs[id]
	return ok && language != nil
}

func (t *TreeSitter) Tokenize(ctx context.Context, src Source) ([]token.Token, error) {
	language, ok := t.langs[src.Lang]
	if !ok || language == nil {
		return nil, errors.Errorf("no tree-sitter grammar for %s", src.Lang)
	}
	t.parser.SetLanguage(language)

	tree, err := t.parser.ParseCtx(ctx, nil, src.Content)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	if tree == nil {
		return nil, errors.New("cannot parse translation unit")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New("empty syntax tree")
	}

	tokens := make([]token.Token, 0, len(src.Content)/4)
	collectTokens(root, src.Content, &tokens)
	return tokens, nil
}

func collectTokens(node *sitter.Node, src []byte, out *[]token.Token) {
	if node == nil {
		return
	}

	nodeType := strings.ToLower(node.Type())
	if node.ChildCount() > 0 && !isAtomicNode(node, nodeType) {
		for i := 0; i < int(node.ChildCount()); i++ {
			collectTokens(node.Child(i), src, out)
		}
		return
	}

	if node.EndByte() <= node.StartByte() {
		return
	}
	spelling := node.Content(src)
	if strings.TrimSpace(spelling) == "" {
		return
	}

	start := node.StartPoint()
	*out = append(*out, token.Token{
		Kind:     classifyLeaf(node, nodeType, spelling),
		Spelling: spelling,
		Line:     int(start.Row) + 1,
		Column:   int(start.Column) + 1,
	})
}

// isAtomicNode keeps comments and literals as one token so that block
// comments and multi-line strings keep their embedded newlines.
func isAtomicNode(node *sitter.Node, nodeType string) bool {
	if !node.IsNamed() {
		return false
	}
	return isCommentType(nodeType) || isLiteralType(nodeType)
}
