package evaluator

import (
	"unicode/utf16"
)

// GoToUTF16 converts a Go string into UTF-16 code units.
func GoToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// UTF16ToGo converts code units back to a Go string. Unpaired
// surrogates convert lossily (U+FFFD); this only happens at diagnostic
// edges, engine-internal round-trips keep the unit slice.
func UTF16ToGo(units []uint16) string {
	return string(utf16.Decode(units))
}

// codePointsOf iterates units by code point, pairing surrogates. Used
// by for-of over strings and by string spread.
func codePointsOf(units []uint16) [][]uint16 {
	var out [][]uint16
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			next := units[i+1]
			if next >= 0xDC00 && next <= 0xDFFF {
				out = append(out, []uint16{u, next})
				i++
				continue
			}
		}
		out = append(out, []uint16{u})
	}
	return out
}

// compareUTF16 orders two unit sequences lexicographically by code
// unit, per the abstract relational comparison on strings.
func compareUTF16(a, b []uint16) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func utf16Equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
