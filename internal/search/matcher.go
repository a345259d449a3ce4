package search

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// Matcher finds the first occurrence of a pattern inside token spellings.
// Patterns use ECMAScript syntax.
type Matcher struct {
	re         *regexp2.Regexp
	ignoreCase bool
}

// CompileMatcher compiles pattern once for the whole run. With ignoreCase
// both the pattern and every spelling are folded with ASCII lowering only.
func CompileMatcher(pattern string, ignoreCase bool, timeout time.Duration) (*Matcher, error) {
	source := pattern
	if ignoreCase {
		source = asciiLowerPattern(pattern)
	}
	re, err := regexp2.Compile(source, regexp2.RegexOptions(regexp2.ECMAScript))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return &Matcher{re: re, ignoreCase: ignoreCase}, nil
}

// Find returns the byte offset and byte length of the leftmost match in
// spelling.
func (m *Matcher) Find(spelling string) (offset int, length int, ok bool, err error) {
	subject := spelling
	if m.ignoreCase {
		subject = asciiLower(spelling)
	}

	match, err := m.re.FindStringMatch(subject)
	if err != nil {
		return 0, 0, false, errors.Wrap(err, "match")
	}
	if match == nil {
		return 0, 0, false, nil
	}

	start := runeToByteOffset(subject, match.Index)
	end := runeToByteOffset(subject, match.Index+match.Length)
	return start, end - start, true, nil
}

// asciiLower folds A-Z only, so byte offsets stay valid for the original
// spelling.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// asciiLowerPattern folds A-Z in the literal parts of a pattern. Escapes
// such as \S or \W, property names in \p{...}, and group or back-reference
// names keep their case.
func asciiLowerPattern(pattern string) string {
	b := []byte(pattern)
	for i := 0; i < len(b); i++ {
		switch {
		case b[i] == '\\':
			if i+1 >= len(b) {
				return string(b)
			}
			i++
			switch b[i] {
			case 'p', 'P':
				if i+1 < len(b) && b[i+1] == '{' {
					i = skipTo(b, i+1, '}')
				}
			case 'k':
				if i+1 < len(b) && b[i+1] == '<' {
					i = skipTo(b, i+1, '>')
				}
			}
		case b[i] == '(' && i+2 < len(b) && b[i+1] == '?' && b[i+2] == '<':
			if i+3 < len(b) && (b[i+3] == '=' || b[i+3] == '!') {
				i += 3
				continue
			}
			i = skipTo(b, i+2, '>')
		case 'A' <= b[i] && b[i] <= 'Z':
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// skipTo returns the index of the first c at or after from, or the last
// index when there is none.
func skipTo(b []byte, from int, c byte) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return len(b) - 1
}

// runeToByteOffset maps a rune index, as reported by regexp2, to a byte
// offset in s.
func runeToByteOffset(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeIndex {
			return i
		}
		n++
	}
	return len(s)
}
