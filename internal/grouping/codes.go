package grouping

import (
	"math/big"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCodeWidth is the width college codes are padded to before comparison.
const DefaultCodeWidth = 2

// CanonicalCode reduces a raw college code to its integer form.
//
// The value is read the way a lenient integer conversion would: leading
// whitespace is skipped, an optional sign is accepted, then digits are
// consumed (single underscores between digits are allowed) until the first
// other character. Leading zeros are dropped. When no digits can be read the
// result is "0" and ok is false.
//
// The digits are kept as text, so arbitrarily long codes never overflow.
//
//	"2"     -> "2",   true
//	"014"   -> "14",  true
//	" 7abc" -> "7",   true
//	"abc"   -> "0",   false
//	""      -> "0",   false
func CanonicalCode(raw string) (code string, ok bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	var digits strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits.WriteByte(c)
			continue
		}
		if c == '_' && digits.Len() > 0 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			continue
		}
		break
	}

	if digits.Len() == 0 {
		return "0", false
	}

	d := strings.TrimLeft(digits.String(), "0")
	if d == "" {
		return "0", true
	}
	if negative {
		return "-" + d, true
	}
	return d, true
}

// PadCode left-pads code with '0' up to width characters. Longer codes are
// returned unchanged.
func PadCode(code string, width int) string {
	n := utf8.RuneCountInString(code)
	if n >= width {
		return code
	}
	return strings.Repeat("0", width-n) + code
}

// sortNumeric orders canonical codes by integer value, ascending.
func sortNumeric(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		return compareNumeric(codes[i], codes[j]) < 0
	})
}

func compareNumeric(a, b string) int {
	x, okA := new(big.Int).SetString(a, 10)
	y, okB := new(big.Int).SetString(b, 10)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	return x.Cmp(y)
}
