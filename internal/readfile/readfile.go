package readfile

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
)

// File is a loaded source file: the raw bytes handed to the tokenizer and the
// text lines used for rendering.
type File struct {
	Content []byte
	Lines   []string
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	return &File{Content: data, Lines: SplitLines(data)}, nil
}

// FirstLine returns line 1 or "" for an empty file.
func (f *File) FirstLine() string {
	if len(f.Lines) == 0 {
		return ""
	}
	return f.Lines[0]
}

// SplitLines splits like repeated getline calls: a final newline does not
// start another line, an empty input has no lines and one trailing \r is
// dropped from every line.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	lines := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line = data[:i]
			data = data[i+1:]
		} else {
			data = nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		lines = append(lines, string(line))
	}
	return lines
}
