package fparser

import "strings"

// maskByte replaces characters inside string literals when matching
// patterns. It is neither a word, space nor punctuation character, so no
// keyword or delimiter pattern can match inside a string.
const maskByte = '\x01'

// maskStrings returns s with the contents of quoted strings replaced by
// maskByte. Quotes themselves are kept and offsets are preserved.
func maskStrings(s string) string {
	if strings.IndexAny(s, `'"`) < 0 {
		return s
	}
	b := []byte(s)
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case quote == 0:
			if c == '\'' || c == '"' {
				quote = c
			}
		case c == quote:
			if i+1 < len(b) && b[i+1] == quote {
				b[i], b[i+1] = maskByte, maskByte
				i++
				continue
			}
			quote = 0
		default:
			b[i] = maskByte
		}
	}
	return string(b)
}

// splitTop splits s at every sep found outside parentheses, brackets and
// strings. Parts are trimmed. A blank s yields nil.
func splitTop(s string, sep byte) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	masked := maskStrings(s)
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(masked); i++ {
		switch c := masked[i]; c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// indexTop returns the index of the first sub in s outside parentheses and
// strings, or -1.
func indexTop(s, sub string) int {
	masked := maskStrings(s)
	depth := 0
	for i := 0; i < len(masked); i++ {
		switch masked[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
		if depth == 0 && strings.HasPrefix(masked[i:], sub) {
			return i
		}
	}
	return -1
}

// closeParen returns the index of the parenthesis closing the one at
// s[open], or -1 if it is unbalanced.
func closeParen(s string, open int) int {
	masked := maskStrings(s)
	depth := 0
	for i := open; i < len(masked); i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parenthesized reports whether s is wholly enclosed by one pair of
// parentheses and returns the inner text.
func parenthesized(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || closeParen(s, 0) != len(s)-1 {
		return "", false
	}
	return strings.TrimSpace(s[1 : len(s)-1]), true
}

// splitKeyword splits "key = value" at the first top-level '=' that is not
// part of '==', '=>', '<=', '>=' or '/='. ok is false when there is none or
// the key is not a name.
func splitKeyword(s string) (key, value string, ok bool) {
	masked := maskStrings(s)
	depth := 0
	for i := 0; i < len(masked); i++ {
		switch c := masked[i]; c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(masked) && (masked[i+1] == '=' || masked[i+1] == '>') {
				return "", "", false
			}
			if i > 0 && strings.IndexByte("<>/=", masked[i-1]) >= 0 {
				return "", "", false
			}
			key = strings.TrimSpace(s[:i])
			if !isName(key) {
				return "", "", false
			}
			return key, strings.TrimSpace(s[i+1:]), true
		}
	}
	return "", "", false
}

// isName reports whether s is a Fortran name: a letter followed by letters,
// digits and underscores.
func isName(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool   { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isDigit(c byte) bool    { return '0' <= c && c <= '9' }
func isNameByte(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// collapseSpace trims s and collapses runs of blanks outside strings.
func collapseSpace(s string) string {
	s = strings.TrimSpace(s)
	masked := maskStrings(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		if masked[i] == ' ' || masked[i] == '\t' {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func lower(s string) string { return strings.ToLower(s) }
func upper(s string) string { return strings.ToUpper(s) }
