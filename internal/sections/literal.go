package sections

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// literalToJSON rewrites a Python literal mapping as JSON: single or double
// quoted strings with Python escapes, None/True/False, tuples and trailing
// commas. Anything else is copied through for the JSON decoder to judge.
func literalToJSON(src string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\'' || c == '"':
			s, n, err := unquoteLiteral(src[i:])
			if err != nil {
				return nil, fmt.Errorf("offset %d: %w", i, err)
			}
			q, err := json.Marshal(s)
			if err != nil {
				return nil, err
			}
			b.Write(q)
			i += n

		case c == '(':
			b.WriteByte('[')
			i++
		case c == ')':
			b.WriteByte(']')
			i++

		case c == ',':
			j := i + 1
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']' || src[j] == ')') {
				i = j
				continue
			}
			b.WriteByte(',')
			i++

		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			switch word := src[i:j]; word {
			case "None":
				b.WriteString("null")
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				b.WriteString(word)
			}
			i = j

		default:
			b.WriteByte(c)
			i++
		}
	}
	return []byte(b.String()), nil
}

// unquoteLiteral decodes the quoted string at the start of s and returns it
// with the number of bytes consumed.
func unquoteLiteral(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\n':
			return "", 0, fmt.Errorf("newline in string literal")
		case c != '\\':
			b.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(s) {
			break
		}
		e := s[i+1]
		i += 2
		switch e {
		case '\n':
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
			if i+width > len(s) {
				return "", 0, fmt.Errorf("truncated \\%c escape", e)
			}
			r, err := strconv.ParseUint(s[i:i+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(r)) {
				return "", 0, fmt.Errorf("invalid \\%c escape %q", e, s[i:i+width])
			}
			b.WriteRune(rune(r))
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i - 1
			for i < len(s) && i-j < 3 && s[i] >= '0' && s[i] <= '7' {
				i++
			}
			r, _ := strconv.ParseUint(s[j:i], 8, 32) //nolint:errcheck // digits checked above
			b.WriteRune(rune(r))
		default:
			// unknown escapes keep their backslash
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
