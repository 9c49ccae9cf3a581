package lexer

import "strings"

// unescape resolves C-style backslash escapes in a string literal body.
// Recognized: \a \b \f \n \r \t \v, octal \ooo (up to three digits) and hex
// \xHH (up to two digits). Any other escaped character stands for itself, so
// \" is a quote and \\ a backslash.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}

		switch c = s[i]; c {
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
		case 'x':
			if i+1 < len(s) && isHex(s[i+1]) {
				v := hexVal(s[i+1])
				i++
				if i+1 < len(s) && isHex(s[i+1]) {
					v = v<<4 | hexVal(s[i+1])
					i++
				}
				b.WriteByte(v)
			} else {
				b.WriteByte('x')
			}
		default:
			if isOctal(c) {
				v := c - '0'
				for n := 1; n < 3 && i+1 < len(s) && isOctal(s[i+1]); n++ {
					i++
					v = v<<3 | (s[i] - '0')
				}
				b.WriteByte(v)
			} else {
				b.WriteByte(c)
			}
		}
	}

	return b.String()
}

func isOctal(c byte) bool {
	return '0' <= c && c <= '7'
}

func isHex(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case isDigit(c):
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
