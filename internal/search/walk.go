package search

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// VisitFunc handles one regular file. realPath is used for I/O, display is
// the name printed in the output.
type VisitFunc func(realPath string, display string)

// ErrorFunc receives per-entry failures; the walk always continues.
type ErrorFunc func(display string, err error)

// Walker enumerates a file tree in directory order. Symbolic links are
// followed; a directory that is the same file as one of its ancestors is
// reported and skipped.
type Walker struct {
	Include []string
	Exclude []string
	OnError ErrorFunc
}

func (w *Walker) Walk(realPath string, display string, visit VisitFunc) {
	w.walk(realPath, display, nil, visit)
}

func (w *Walker) walk(realPath string, display string, ancestors []os.FileInfo, visit VisitFunc) {
	info, err := os.Stat(realPath)
	if err != nil {
		w.report(display, errors.Wrap(err, "stat"))
		return
	}

	if !info.IsDir() {
		if w.excluded(display) || !w.included(display) {
			return
		}
		visit(realPath, display)
		return
	}

	if len(ancestors) > 0 && w.excluded(display) {
		return
	}
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			w.report(display, errors.New("directory cycle detected"))
			return
		}
	}

	entries, err := readDirUnsorted(realPath)
	if err != nil {
		w.report(display, errors.Wrap(err, "read directory"))
		return
	}

	ancestors = append(ancestors, info)
	for _, name := range entries {
		if name == "." || name == ".." {
			continue
		}
		w.walk(filepath.Join(realPath, name), joinDisplay(display, name), ancestors, visit)
	}
}

func (w *Walker) report(display string, err error) {
	if w.OnError != nil {
		w.OnError(display, err)
	}
}

func (w *Walker) excluded(display string) bool {
	return matchAny(w.Exclude, display)
}

func (w *Walker) included(display string) bool {
	return len(w.Include) == 0 || matchAny(w.Include, display)
}

// readDirUnsorted returns entry names in the order the OS reports them.
// os.ReadDir would sort them.
func readDirUnsorted(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func joinDisplay(prefix string, name string) string {
	if prefix == "" {
		return name
	}
	if strings.HasSuffix(prefix, "/") {
		return prefix + name
	}
	return prefix + "/" + name
}

// matchAny tests display against doublestar globs. Globs without a slash
// also match the base name, so "*.go" works at any depth.
func matchAny(patterns []string, display string) bool {
	slashed := filepath.ToSlash(display)
	base := path.Base(slashed)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
