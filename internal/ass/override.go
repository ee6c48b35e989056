package ass

import (
	"strings"
	"unicode/utf8"
)

// overrideTag is a font-relevant tag inside an override block.
type overrideTag struct {
	name string // "fn" or "r"
	arg  string
	// start and end delimit arg within the block.
	start, end int
}

// overrideTags returns the \fn and \r tags of an override block (the text
// between '{' and '}') in order. Arguments run to the next backslash or the
// end of the block.
func overrideTags(block string) []overrideTag {
	var tags []overrideTag
	for i := 0; i < len(block); i++ {
		if block[i] != '\\' {
			continue
		}
		rest := block[i+1:]
		var name string
		switch {
		case strings.HasPrefix(rest, "fn"):
			name = "fn"
		case strings.HasPrefix(rest, "r"):
			name = "r"
		default:
			continue
		}
		start := i + 1 + len(name)
		end := start
		for end < len(block) && block[end] != '\\' {
			end++
		}
		argStart, argEnd := trimBounds(block, start, end)
		tags = append(tags, overrideTag{name: name, arg: block[argStart:argEnd], start: argStart, end: argEnd})
		i = end - 1
	}
	return tags
}

// trimBounds narrows [start,end) to exclude surrounding spaces and a
// closing parenthesis left by an enclosing \t(...).
func trimBounds(s string, start, end int) (int, int) {
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	if end > start && s[end-1] == ')' && !strings.Contains(s[start:end], "(") {
		end--
		for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
			end--
		}
	}
	return start, end
}

func decodeRune(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		size = 1
	}
	return r, size
}
