package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Marker wraps the matched text of a highlighted row.
type Marker struct {
	Start string
	Stop  string
}

var DefaultMarker = Marker{Start: "\x1b[31m", Stop: "\x1b[0m"}

const contextTag = " "

type RenderOptions struct {
	Before    int
	After     int
	OnlyCount bool
	Highlight bool
	Marker    Marker
}

// Renderer prints the matched lines of one file at a time with their
// context. Overlapping context windows are merged by a watermark: a line is
// never printed twice for the same file.
type Renderer struct {
	w    io.Writer
	opts RenderOptions
}

func NewRenderer(w io.Writer, opts RenderOptions) *Renderer {
	if opts.Marker == (Marker{}) {
		opts.Marker = DefaultMarker
	}
	return &Renderer{w: w, opts: opts}
}

func (r *Renderer) Render(name string, lines []string, idx *Index) error {
	if r.opts.OnlyCount {
		_, err := fmt.Fprintf(r.w, "%d\n", idx.Len())
		return errors.Wrap(err, "write count")
	}
	if len(lines) == 0 {
		return nil
	}

	total := len(lines)
	printed := 1
	for m := range idx.All() {
		start := max(printed, m.Line-r.opts.Before, 1)
		end := min(total, m.Line+r.opts.After) + 1

		for i := start; i < end; i++ {
			text := lines[i-1]
			tag := contextTag
			if loc, ok := idx.Find(i); ok {
				tag = loc.Kind.Code()
				if r.opts.Highlight {
					text = r.highlight(text, loc)
				}
			}
			if _, err := fmt.Fprintf(r.w, "%s:%d:%s %s\n", name, i, tag, text); err != nil {
				return errors.Wrap(err, "write row")
			}
		}
		printed = max(printed, end)
	}
	return nil
}

func (r *Renderer) highlight(text string, loc Location) string {
	start := clamp(loc.Column-1, 0, len(text))
	end := clamp(start+loc.Length, start, len(text))

	var b strings.Builder
	b.Grow(len(text) + len(r.opts.Marker.Start) + len(r.opts.Marker.Stop))
	b.WriteString(text[:start])
	b.WriteString(r.opts.Marker.Start)
	b.WriteString(text[start:end])
	b.WriteString(r.opts.Marker.Stop)
	b.WriteString(text[end:])
	return b.String()
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
