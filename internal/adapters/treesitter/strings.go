package treesitter

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unquote decodes a JavaScript string literal including its quotes.
// It handles the escapes ECMAScript defines for string literals: single
// character escapes, \xHH, \uHHHH, \u{H...}, legacy octal and line
// continuations. \uHHHH pairs that form a surrogate pair decode to one rune;
// a lone surrogate decodes to U+FFFD.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	d := decoder{}
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			r, size := utf8.DecodeRuneInString(body[i:])
			d.put(r)
			i += size
			continue
		}
		if i+1 >= len(body) {
			d.put('\\')
			break
		}
		i = d.escape(body, i+1)
	}
	d.flush()
	return d.sb.String()
}

type decoder struct {
	sb   strings.Builder
	high rune // pending high surrogate, 0 if none
}

// escape decodes the escape whose first character is at body[i] and returns
// the index just past it.
func (d *decoder) escape(body string, i int) int {
	switch c := body[i]; c {
	case 'n':
		d.put('\n')
	case 't':
		d.put('\t')
	case 'r':
		d.put('\r')
	case 'b':
		d.put('\b')
	case 'f':
		d.put('\f')
	case 'v':
		d.put('\v')
	case '\r':
		// Line continuation; \r\n counts as one terminator.
		if i+1 < len(body) && body[i+1] == '\n' {
			return i + 2
		}
	case '\n':
	case 'x':
		if v, ok := hexValue(body, i+1, 2); ok {
			d.put(rune(v))
			return i + 3
		}
		d.put('x')
	case 'u':
		return d.unicode(body, i)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return d.octal(body, i)
	default:
		r, size := utf8.DecodeRuneInString(body[i:])
		if r != '\u2028' && r != '\u2029' {
			d.put(r)
		}
		return i + size
	}
	return i + 1
}

func (d *decoder) unicode(body string, i int) int {
	if i+1 < len(body) && body[i+1] == '{' {
		end := strings.IndexByte(body[i+2:], '}')
		if end > 0 {
			if v, ok := hexValue(body, i+2, end); ok && v <= utf8.MaxRune {
				d.unit(rune(v))
				return i + 2 + end + 1
			}
		}
		d.put('u')
		return i + 1
	}
	if v, ok := hexValue(body, i+1, 4); ok {
		d.unit(rune(v))
		return i + 5
	}
	d.put('u')
	return i + 1
}

func (d *decoder) octal(body string, i int) int {
	limit := 3
	if body[i] >= '4' {
		limit = 2
	}
	v, n := 0, 0
	for n < limit && i+n < len(body) && body[i+n] >= '0' && body[i+n] <= '7' {
		v = v*8 + int(body[i+n]-'0')
		n++
	}
	d.put(rune(v))
	return i + n
}

// unit handles a decoded code point that may be half of a surrogate pair.
func (d *decoder) unit(r rune) {
	if utf16.IsSurrogate(r) {
		if r < 0xDC00 {
			d.flush()
			d.high = r
			return
		}
		if d.high != 0 {
			d.sb.WriteRune(utf16.DecodeRune(d.high, r))
			d.high = 0
			return
		}
	}
	d.put(r)
}

func (d *decoder) put(r rune) {
	d.flush()
	if utf16.IsSurrogate(r) {
		r = utf8.RuneError
	}
	d.sb.WriteRune(r)
}

func (d *decoder) flush() {
	if d.high != 0 {
		d.sb.WriteRune(utf8.RuneError)
		d.high = 0
	}
}

func hexValue(s string, start, n int) (int, bool) {
	if n <= 0 || start+n > len(s) {
		return 0, false
	}
	v := 0
	for _, c := range []byte(s[start : start+n]) {
		var digit int
		switch {
		case c >= '0' && c <= '9':
			digit = int(c - '0')
		case c >= 'a' && c <= 'f':
			digit = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			digit = int(c-'A') + 10
		default:
			return 0, false
		}
		v = v*16 + digit
		if v > utf8.MaxRune {
			return 0, false
		}
	}
	return v, true
}
