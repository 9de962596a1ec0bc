package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// encodeText applies the spreadsheet string escape: runes XML cannot carry
// are written as _xHHHH_, and an underscore that would otherwise start such
// a sequence is written as _x005F_.
func encodeText(s string) string {
	if xmlnode.ValidText(s) && !strings.Contains(s, "_x") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case !xmlnode.IsXMLChar(r):
			fmt.Fprintf(&b, "_x%04X_", r)
		case r == '_' && escapeAt(s, i):
			b.WriteString("_x005F_")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// decodeText reverses encodeText.
func decodeText(s string) string {
	if !strings.Contains(s, "_x") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if escapeAt(s, i) {
			n, _ := strconv.ParseUint(s[i+2:i+6], 16, 16)
			b.WriteRune(rune(n))
			i += 7
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// escapeAt reports whether s[i:] starts with _xHHHH_.
func escapeAt(s string, i int) bool {
	if i+7 > len(s) || s[i] != '_' || s[i+1] != 'x' || s[i+6] != '_' {
		return false
	}
	for _, c := range s[i+2 : i+6] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
