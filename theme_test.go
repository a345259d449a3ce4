package main

import (
	"strings"
	"testing"

	"tkgrep/internal/search"
)

func TestThemeMarker_Known(t *testing.T) {
	marker, err := ThemeMarker("dracula")
	if err != nil {
		t.Fatalf("expected dracula theme to load: %v", err)
	}
	if !strings.HasPrefix(marker.Start, "\x1b[") || !strings.HasSuffix(marker.Start, "m") {
		t.Fatalf("start = %q, want an SGR sequence", marker.Start)
	}
	if !strings.Contains(marker.Start, "38;2;") {
		t.Fatalf("start = %q, want a true-colour foreground", marker.Start)
	}
	if !strings.HasPrefix(marker.Stop, "\x1b[") {
		t.Fatalf("stop = %q, want an SGR reset", marker.Stop)
	}
}

func TestThemeMarker_Empty(t *testing.T) {
	marker, err := ThemeMarker("  ")
	if err != nil {
		t.Fatalf("empty theme: %v", err)
	}
	if marker != search.DefaultMarker {
		t.Fatalf("marker = %#v, want default", marker)
	}
}

func TestThemeMarker_Unknown(t *testing.T) {
	if _, err := ThemeMarker("this-theme-does-not-exist"); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestNormalizeThemeName(t *testing.T) {
	if got := normalizeThemeName(" Solarized "); got != "solarized-dark" {
		t.Fatalf("normalizeThemeName = %q", got)
	}
	if got := normalizeThemeName("one-dark"); got != "onedark" {
		t.Fatalf("normalizeThemeName = %q", got)
	}
}
