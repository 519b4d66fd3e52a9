package account

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and maps the stroked
// D, which has no canonical decomposition. Transformers are stateful so a
// fresh chain is built per call.
func stripMarks() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			switch r {
			case 'Đ':
				return 'D'
			case 'đ':
				return 'd'
			}
			return r
		}),
	)
}

func fold(s string) string {
	out, _, err := transform.String(stripMarks(), s)
	if err != nil {
		return s
	}
	return out
}

// Normalize canonicalizes a holder name: uppercase, diacritics removed,
// only A-Z and single inner spaces kept. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	folded := fold(strings.ToUpper(name))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'A' && r <= 'Z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FoldASCII strips diacritics from free text and drops anything outside
// printable ASCII, keeping case, digits and punctuation. Runs of whitespace
// collapse to one space.
func FoldASCII(s string) string {
	folded := fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
