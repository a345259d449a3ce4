package search

// ResolvePosition maps a byte offset inside a token spelling to the real
// 1-based line and column of that byte in the file. line and column are the
// token's start position.
//
// Newlines (\n or \r\n) inside the spelling move the result to a later
// line, where the column restarts at 1 because the token's start column says
// nothing about that line. An offset that runs past the spelling falls back
// to the token's line and column+offset.
func ResolvePosition(spelling string, line int, column int, offset int) (int, int) {
	realLine := line
	realCol := 0
	remaining := offset
	found := false

	for pos := 0; pos < len(spelling); {
		if n := newlineWidth(spelling, pos); n > 0 {
			realLine++
			realCol = 0
			remaining -= n
			pos += n
			continue
		}
		if remaining <= 0 {
			found = true
			break
		}
		pos++
		realCol++
		remaining--
	}

	if !found {
		realLine, realCol = line, offset
	}
	if realLine == line {
		return realLine, column + realCol
	}
	return realLine, 1 + realCol
}

func newlineWidth(s string, pos int) int {
	switch {
	case s[pos] == '\n':
		return 1
	case s[pos] == '\r' && pos+1 < len(s) && s[pos+1] == '\n':
		return 2
	default:
		return 0
	}
}
