
package classifier

import (
	"math"
	"strings"
	"testing"

	"safesearch-analyzer/internal/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreMixedCategories(t *testing.T) {
	cl := New()
	scores, bad, total := cl.Score("this is violence and murder and fraud hacking")
	if total != 4 {
		t.Fatalf("want 4 tokens after stopwords, got %d", total)
	}
	if bad != 4 {
		t.Fatalf("want bad=4, got %d", bad)
	}
	if !approx(scores["violence"], 0.75) {
		t.Fatalf("violence: want 0.75, got %v", scores["violence"])
	}
	if !approx(scores["fraud"], 0.8) {
		t.Fatalf("fraud: want 0.8, got %v", scores["fraud"])
	}
	for _, c := range []string{"adult_content", "drugs", "discrimination", "gambling"} {
		v, ok := scores[c]
		if !ok || v != 0 {
			t.Fatalf("%s: want present and 0, got %v (present=%v)", c, v, ok)
		}
	}
	score, rating := Rate(bad, total)
	if score != 0 || rating != models.RatingVeryUnsafe {
		t.Fatalf("want 0/Very Unsafe, got %v/%s", score, rating)
	}
}

func TestScoreEmpty(t *testing.T) {
	scores, bad, total := New().Score("")
	if len(scores) != 0 || bad != 0 || total != 0 {
		t.Fatalf("want empty result, got %v %d %d", scores, bad, total)
	}
	score, rating := Rate(bad, total)
	if score != 10 || rating != models.RatingUnknown {
		t.Fatalf("want 10/Unknown, got %v/%s", score, rating)
	}
}

func TestScoreOnlyStopwords(t *testing.T) {
	scores, bad, total := New().Score("the and of it is")
	if total != 0 || bad != 0 {
		t.Fatalf("want 0/0, got bad=%d total=%d", bad, total)
	}
	for name, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != 0 {
			t.Fatalf("%s: want 0, got %v", name, v)
		}
	}
}

func TestSubstringMatchCountsTokenOncePerCategory(t *testing.T) {
	// "murderers" contains "murder"; "bloodfight" contains both "blood" and
	// "fight" but is still one token.
	_, bad, total := New().Score("murderers bloodfight garden")
	if total != 3 {
		t.Fatalf("want 3 tokens, got %d", total)
	}
	if bad != 2 {
		t.Fatalf("want 2 violence matches, got %d", bad)
	}
}

func TestTokenMatchingTwoCategoriesCountsTwice(t *testing.T) {
	// "sexism" hits adult_content via "sex" and discrimination via "sexism".
	scores, bad, total := New().Score("sexism")
	if total != 1 || bad != 2 {
		t.Fatalf("want total=1 bad=2, got total=%d bad=%d", total, bad)
	}
	if !approx(scores["adult_content"], 2.0) || !approx(scores["discrimination"], 1.7) {
		t.Fatalf("unexpected scores %v", scores)
	}
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	_, bad, _ := New().Score("CASINO Betting")
	if bad != 2 {
		t.Fatalf("want 2 gambling hits, got %d", bad)
	}
}

func TestCustomCategories(t *testing.T) {
	cl := New(Category{Name: "spam", Weight: 3, Keywords: []string{" Viagra "}})
	scores, bad, total := cl.Score("cheap viagra pills today")
	if bad != 1 || total != 4 {
		t.Fatalf("want bad=1 total=4, got %d %d", bad, total)
	}
	if !approx(scores["spam"], 0.75) {
		t.Fatalf("want 0.75, got %v", scores["spam"])
	}
	if len(scores) != 1 {
		t.Fatalf("default categories leaked in: %v", scores)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hello WORLD snake_case 42 café")
	want := []string{"hello", "world", "snake_case", "42", "café"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestReadCategories(t *testing.T) {
	doc := `
categories:
  - name: spam
    weight: 1.2
    keywords: [Viagra, "  lottery "]
  - name: phishing
    weight: 2
    keywords: [password]
`
	cats, err := ReadCategories(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Keywords[0] != "viagra" || cats[0].Keywords[1] != "lottery" {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

func TestReadCategoriesRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":       ``,
		"none":        `categories: []`,
		"zero weight": "categories:\n  - name: x\n    weight: 0\n    keywords: [a]\n",
		"no keywords": "categories:\n  - name: x\n    weight: 1\n    keywords: []\n",
		"no name":     "categories:\n  - weight: 1\n    keywords: [a]\n",
		"duplicate":   "categories:\n  - name: x\n    weight: 1\n    keywords: [a]\n  - name: x\n    weight: 1\n    keywords: [b]\n",
		"bad yaml":    "categories: [",
	}
	for name, doc := range cases {
		if _, err := ReadCategories(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
