
package classifier

import (
	"strings"
	"unicode"
)

// Scorer counts weighted keyword hits per category. It is read-only after
// construction and safe for concurrent use.
type Scorer struct {
	categories []Category
	stopwords  map[string]struct{}
}

// New builds a Scorer over cats, falling back to DefaultCategories when
// cats is empty.
func New(cats ...Category) *Scorer {
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	return &Scorer{categories: normalizeCategories(cats), stopwords: stopwords}
}

func (s *Scorer) Categories() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Tokenize lowercases text and splits it on anything that is not a letter,
// digit, mark or underscore.
func Tokenize(text string) []string {
	sep := func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r) && r != '_'
	}
	return strings.FieldsFunc(strings.ToLower(text), sep)
}

// Score returns the per-category weighted score, the bad word tally and the
// number of tokens left after stopword removal.
//
// A token counts once per category it matches, so a token matching two
// categories adds two to bad. Matching is by substring: "murderer" hits
// "murder".
func (s *Scorer) Score(text string) (scores map[string]float64, bad, total int) {
	scores = map[string]float64{}
	if text == "" {
		return scores, 0, 0
	}

	var tokens []string
	for _, t := range Tokenize(text) {
		if _, stop := s.stopwords[t]; !stop {
			tokens = append(tokens, t)
		}
	}
	total = len(tokens)
	denom := float64(max(total, 1))

	for _, c := range s.categories {
		matches := 0
		for _, t := range tokens {
			if containsAny(t, c.Keywords) {
				matches++
			}
		}
		scores[c.Name] = float64(matches) * c.Weight / denom
		bad += matches
	}
	return scores, bad, total
}

func containsAny(token string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(token, k) {
			return true
		}
	}
	return false
}
