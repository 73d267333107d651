package builder

import (
	"strconv"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/xerrors"
)

var controlEscapes = map[byte]rune{
	'n': '\n',
	't': '\t',
	'r': '\r',
	'f': '\f',
	'v': '\v',
}

var hexWidths = map[byte]int{'x': 2, 'u': 4, 'U': 8}

// decodeChar decodes one literal character as written in the pattern:
// a bare character or a single escape. Inside a set \b is a backspace
// and \N is always octal. Outside a set three octal digits are octal.
func decodeChar(text string, inSet bool) (rune, error) {
	if text == "" {
		return 0, xerrors.New("empty character")
	}
	if text[0] != '\\' {
		r, size := utf8.DecodeRuneInString(text)
		if size != len(text) {
			return 0, xerrors.Errorf("%q is not a single character", text)
		}
		return r, nil
	}
	if len(text) < 2 {
		return 0, xerrors.New("bad escape (end of pattern)")
	}

	body := text[1:]
	c := body[0]
	if r, ok := controlEscapes[c]; ok && len(body) == 1 {
		return r, nil
	}
	switch {
	case c == 'b' && inSet && len(body) == 1:
		return '\b', nil
	case c == 'x' || c == 'u' || c == 'U':
		if len(body)-1 != hexWidths[c] {
			return 0, xerrors.Errorf("incomplete escape %s", text)
		}
		return parseCode(body[1:], 16, text)
	case c == '0' || (c >= '1' && c <= '9' && (inSet || len(body) == 3)):
		r, err := parseCode(body, 8, text)
		if err == nil && r > 0o377 {
			return 0, xerrors.Errorf("octal escape value %s outside of range 0-0o377", text)
		}
		return r, err
	}

	r, size := utf8.DecodeRuneInString(body)
	if size != len(body) {
		return 0, xerrors.Errorf("bad escape %s", text)
	}
	if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return 0, xerrors.Errorf("bad escape %s", text)
	}
	return r, nil
}

func parseCode(digits string, base int, text string) (rune, error) {
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || digits == "" {
		return 0, xerrors.Errorf("bad escape %s", text)
	}
	if n > unicode.MaxRune {
		return 0, xerrors.Errorf("bad escape %s: code point out of range", text)
	}
	// Surrogates cannot be encoded in a Go string and would print as U+FFFD.
	if utf16.IsSurrogate(rune(n)) {
		return 0, xerrors.Errorf("bad escape %s: surrogate code point", text)
	}
	return rune(n), nil
}
