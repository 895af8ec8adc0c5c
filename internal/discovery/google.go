package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"safesearch-analyzer/internal/ratelimit"
	"safesearch-analyzer/internal/useragent"
	"safesearch-analyzer/pkg/logger"
)

const DefaultSearchURL = "https://www.google.com/search"

// Google scrapes the organic results of a Google result page. It shares the
// outbound limiter with page fetches.
type Google struct {
	BaseURL string
	Client  *http.Client
	Limiter *ratelimit.Limiter
	Headers useragent.Supplier
	Logger  *logger.Logger
}

// NewGoogle builds a scraper; a nil client gets a plain one with a 15s timeout.
func NewGoogle(baseURL string, client *http.Client, limiter *ratelimit.Limiter, headers useragent.Supplier) *Google {
	if baseURL == "" {
		baseURL = DefaultSearchURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if headers == nil {
		headers = useragent.New()
	}
	return &Google{
		BaseURL: baseURL,
		Client:  client,
		Limiter: limiter,
		Headers: headers,
		Logger:  logger.New(),
	}
}

// Discover returns no URLs, not an error, when the search engine is
// unreachable or refuses the query. Only a bad base URL or a cancelled ctx
// is reported.
func (g *Google) Discover(ctx context.Context, query string, limit int) ([]string, error) {
	urls, err := g.search(ctx, query, limit)
	if errors.Is(err, ErrSearchFailed) && ctx.Err() == nil {
		g.Logger.Warnf("search %q: %v", query, err)
		return nil, nil
	}
	return urls, err
}

func (g *Google) search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if g.Limiter != nil {
		if err := g.Limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}
	}

	u, err := url.Parse(g.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("search url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("num", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range g.Headers.Headers() {
		req.Header.Set(k, v)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSearchFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse results: %v", ErrSearchFailed, err)
	}
	return ExtractResultLinks(doc, limit), nil
}

// Close drops idle search connections.
func (g *Google) Close() error {
	g.Client.CloseIdleConnections()
	return nil
}

// ExtractResultLinks pulls organic result links from a result page. The
// current layout wraps them in div.yuRUbf; older and no-JS layouts link
// through /url?q=<target>.
func ExtractResultLinks(doc *goquery.Document, limit int) []string {
	var links []string
	seen := map[string]struct{}{}
	add := func(href string) bool {
		if !isWebURL(href) {
			return true
		}
		if _, dup := seen[href]; dup {
			return true
		}
		seen[href] = struct{}{}
		links = append(links, href)
		return len(links) < limit
	}

	doc.Find("div.yuRUbf a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		return add(s.AttrOr("href", ""))
	})
	if len(links) > 0 {
		return links
	}

	doc.Find(`a[href^="/url?"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		ref, err := url.Parse(s.AttrOr("href", ""))
		if err != nil {
			return true
		}
		target := ref.Query().Get("q")
		if target == "" {
			target = ref.Query().Get("url")
		}
		if t, err := url.Parse(target); err == nil && strings.HasSuffix(t.Hostname(), "google.com") {
			return true
		}
		return add(target)
	})
	return links
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
