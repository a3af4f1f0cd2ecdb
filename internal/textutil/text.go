// Package textutil holds the text-processing helpers shared by the message
// classifier and the search normalizer. Everything here is a pure function.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips combining marks so accented and unaccented spellings
// compare equal ("qué" -> "que"). Invalid input is returned unchanged.
func FoldDiacritics(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// Tokenize splits text into lowercase, diacritic-folded word tokens.
func Tokenize(s string) []string {
	folded := FoldDiacritics(strings.ToLower(s))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// UppercaseRatio returns the share of uppercase letters among all letters,
// along with the total letter count. Non-letters are ignored.
func UppercaseRatio(s string) (ratio float64, letters int) {
	upper := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0, 0
	}
	return float64(upper) / float64(letters), letters
}

var displayReplacer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "`", "")

// SanitizeDisplay trims a user-supplied display string and strips the
// angle-bracket and quote characters that could leak into downstream query
// construction.
func SanitizeDisplay(s string) string {
	return strings.TrimSpace(displayReplacer.Replace(s))
}

// SanitizeUTF8 drops invalid UTF-8 sequences, keeping everything else intact.
func SanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	result := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				continue
			}
		}
		result = append(result, r)
	}
	return string(result)
}

// Truncate cuts text to at most maxSize bytes on a valid UTF-8 boundary.
func Truncate(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	truncated := s[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}
