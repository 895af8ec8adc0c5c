
package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
	// \w in RE2 is ASCII only; spell out the Unicode classes instead
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s]`)
)

// StripMarkup returns the visible text of an HTML document. Script, style
// and noscript bodies are dropped.
func (p *Parser) StripMarkup(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	doc.Find("script,noscript,style,template").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	// block elements would otherwise glue neighbouring words together
	doc.Find("p,div,li,br,h1,h2,h3,h4,h5,h6,td,th,tr,section,article,header,footer,title").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return doc.Text(), nil
}

// CollapseAndClean squeezes whitespace runs to one space, trims, then drops
// every character that is neither a word character nor whitespace.
func (p *Parser) CollapseAndClean(text string) string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	return nonWordRe.ReplaceAllString(text, "")
}

// Normalize is StripMarkup followed by CollapseAndClean.
func (p *Parser) Normalize(rawHTML string) (string, error) {
	text, err := p.StripMarkup(rawHTML)
	if err != nil {
		return "", err
	}
	return p.CollapseAndClean(text), nil
}
