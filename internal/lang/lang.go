// Package lang guesses the source language of a file from its name and, for
// scripts without an extension, from the shebang line.
package lang

import (
	"path/filepath"
	"strings"
)

type ID string

// Plain means no language was recognized; the tokenizer picks a lexer by
// content analysis instead.
const (
	Plain      ID = "plain"
	Go         ID = "go"
	Rust       ID = "rust"
	Python     ID = "python"
	JavaScript ID = "javascript"
	TypeScript ID = "typescript"
	TSX        ID = "tsx"
	YAML       ID = "yaml"
	TOML       ID = "toml"
	JSON       ID = "json"
	Bash       ID = "bash"
	C          ID = "c"
	CPP        ID = "cpp"
	Zig        ID = "zig"
)

var byExt = map[string]ID{
	".go":    Go,
	".rs":    Rust,
	".py":    Python,
	".pyi":   Python,
	".js":    JavaScript,
	".jsx":   JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".ts":    TypeScript,
	".mts":   TypeScript,
	".cts":   TypeScript,
	".tsx":   TSX,
	".yaml":  YAML,
	".yml":   YAML,
	".toml":  TOML,
	".json":  JSON,
	".jsonc": JSON,
	".sh":    Bash,
	".bash":  Bash,
	".zsh":   Bash,
	".c":     C,
	".h":     C,
	".cpp":   CPP,
	".cc":    CPP,
	".cxx":   CPP,
	".hpp":   CPP,
	".hh":    CPP,
	".hxx":   CPP,
	".zig":   Zig,
}

var byName = map[string]ID{
	".bashrc":           Bash,
	".bash_profile":     Bash,
	".zshrc":            Bash,
	"Cargo.toml":        TOML,
	"Cargo.lock":        TOML,
	"package-lock.json": JSON,
}

// shebangs is checked in order; "sh" must stay last since it is a substring
// of the other shells.
var shebangs = []struct {
	needle string
	id     ID
}{
	{"python", Python},
	{"node", JavaScript},
	{"deno", TypeScript},
	{"bash", Bash},
	{"zsh", Bash},
	{"sh", Bash},
}

func Detect(path string) ID {
	base := filepath.Base(path)
	if id, ok := byName[base]; ok {
		return id
	}
	if id, ok := byExt[strings.ToLower(filepath.Ext(base))]; ok {
		return id
	}
	return Plain
}

func DetectWithShebang(path string, firstLine string) ID {
	if id := Detect(path); id != Plain {
		return id
	}
	if !strings.HasPrefix(firstLine, "#!") {
		return Plain
	}

	interp := strings.ToLower(firstLine)
	for _, s := range shebangs {
		if strings.Contains(interp, s.needle) {
			return s.id
		}
	}
	return Plain
}
