package main

import (
	"io"
	"sort"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"

	"tkgrep/internal/search"
)

// markerSentinel splits a rendered style into its opening and closing
// sequences. It never occurs inside an SGR sequence.
const markerSentinel = "#"

// ThemeMarker builds the highlight marker pair from a chroma style. The
// matched text takes the style's error colour (keyword colour when the style
// has none) in bold. An empty name keeps the plain red marker.
func ThemeMarker(name string) (search.Marker, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		return search.DefaultMarker, nil
	}

	lookup := normalizeThemeName(requested)
	names := styles.Names()
	known := false
	for _, n := range names {
		if n == lookup {
			known = true
			break
		}
	}
	style := styles.Get(lookup)
	if !known || style == nil {
		sort.Strings(names)
		return search.Marker{}, errors.Errorf("unknown theme %q. try one of: %s", requested, strings.Join(topThemeHints(names), ", "))
	}

	fg := pickForeground(style, "#BF616A", chroma.Error, chroma.GenericDeleted, chroma.KeywordConstant, chroma.Keyword)
	bg := pickBackground(style, "", chroma.LineHighlight)

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	st := r.NewStyle().Foreground(lipgloss.Color(fg)).Bold(true)
	if bg != "" {
		st = st.Background(lipgloss.Color(bg))
	}

	start, stop, ok := strings.Cut(st.Render(markerSentinel), markerSentinel)
	if !ok || start == "" {
		return search.DefaultMarker, nil
	}
	return search.Marker{Start: start, Stop: stop}, nil
}

func normalizeThemeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			return entry.Colour.String()
		}
	}
	return fallback
}

func pickBackground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Background.IsSet() {
			return entry.Background.String()
		}
	}
	return fallback
}

func topThemeHints(all []string) []string {
	wanted := []string{"nord", "dracula", "monokai", "github", "github-dark", "solarized-dark", "solarized-light", "gruvbox", "onedark"}
	set := map[string]bool{}
	for _, n := range all {
		set[n] = true
	}
	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if set[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		limit := min(8, len(all))
		return all[:limit]
	}
	return out
}
