package match

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// process lowercases, strips accents and replaces anything that is not a
// letter or digit with a space, then collapses whitespace.
func process(s string) string {
	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func sortTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// Ratio is 100 × (1 − editDistance / longerLength), rounded.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// TokenSortRatio scores two names 0..100 after normalising them and sorting
// their tokens, so "Mitrović Aleksandar" equals "Aleksandar Mitrovic".
// Either side empty after normalisation scores 0.
func TokenSortRatio(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == "" || pb == "" {
		return 0
	}
	return Ratio(sortTokens(pa), sortTokens(pb))
}

// BestMatch returns the highest-scoring candidate. Ties go to the earliest
// candidate. ok is false when no candidate reaches threshold.
func BestMatch(name string, candidates []string, threshold int) (best string, score int, ok bool) {
	score = -1
	for _, c := range candidates {
		if s := TokenSortRatio(name, c); s > score {
			best, score = c, s
		}
	}
	if score < threshold || score < 0 {
		return "", max(score, 0), false
	}
	return best, score, true
}
