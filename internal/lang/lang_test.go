package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want ID
	}{
		{"main.go", Go},
		{"src/lib.RS", Rust},
		{"a/b/Cargo.toml", TOML},
		{"build.zig", Zig},
		{"include/vec.hpp", CPP},
		{"README", Plain},
		{"notes.md", Plain},
	}

	for _, tc := range tests {
		if got := Detect(tc.path); got != tc.want {
			t.Fatalf("Detect(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestDetectWithShebang(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		firstLine string
		want      ID
	}{
		{name: "extension wins", path: "tool.py", firstLine: "#!/bin/sh", want: Python},
		{name: "env python", path: "tool", firstLine: "#!/usr/bin/env python3", want: Python},
		{name: "node", path: "cli", firstLine: "#!/usr/bin/env node", want: JavaScript},
		{name: "plain sh", path: "configure", firstLine: "#!/bin/sh -e", want: Bash},
		{name: "no shebang", path: "data", firstLine: "hello", want: Plain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectWithShebang(tc.path, tc.firstLine); got != tc.want {
				t.Fatalf("DetectWithShebang = %q, want %q", got, tc.want)
			}
		})
	}
}
