package schemavalidator

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// runeLen counts s's length the way minLength/maxLength expect: in Unicode
// code points after NFC normalization, not raw bytes. A combining-mark
// sequence that collapses to a single precomposed character under NFC
// should count once, matching what an OAS author visually means by
// "length" for non-ASCII strings.
func runeLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
