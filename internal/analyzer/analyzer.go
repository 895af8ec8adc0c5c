// Package analyzer runs the fetch, normalize, score and rate pipeline over
// the pages a search query turns up.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"sort"
	"sync"
	"time"

	"safesearch-analyzer/internal/classifier"
	"safesearch-analyzer/internal/discovery"
	"safesearch-analyzer/internal/models"
	"safesearch-analyzer/internal/parser"
	"safesearch-analyzer/pkg/logger"
)

const msgFetchFailed = "Could not fetch page content"

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Session is a network client scoped to one query run.
type Session interface {
	Fetcher
	Close() error
}

type Config struct {
	Discovery  discovery.Provider
	NewSession func() Session
	Scorer     *classifier.Scorer
	MaxResults int
	Logger     *logger.Logger
}

type Analyzer struct {
	discovery  discovery.Provider
	newSession func() Session
	parser     *parser.Parser
	scorer     *classifier.Scorer
	maxResults int
	log        *logger.Logger
	now        func() time.Time
}

func New(cfg Config) (*Analyzer, error) {
	if cfg.Discovery == nil {
		return nil, errors.New("analyzer: discovery provider required")
	}
	if cfg.NewSession == nil {
		return nil, errors.New("analyzer: session factory required")
	}
	if cfg.Scorer == nil {
		cfg.Scorer = classifier.New()
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = discovery.DefaultMaxResults
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New()
	}
	return &Analyzer{
		discovery:  cfg.Discovery,
		newSession: cfg.NewSession,
		parser:     parser.New(),
		scorer:     cfg.Scorer,
		maxResults: cfg.MaxResults,
		log:        cfg.Logger,
		now:        time.Now,
	}, nil
}

// AnalyzePage produces the result for a single URL. It never fails: fetch,
// parse and scoring problems, panics included, come back as an error-status
// result.
func (a *Analyzer) AnalyzePage(ctx context.Context, f Fetcher, rawURL string) (res models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorf("analyze %s: panic: %v", rawURL, r)
			res = models.Failed(rawURL, fmt.Sprint(r))
		}
	}()

	log := a.log.With("url", rawURL)
	content, err := f.Fetch(ctx, rawURL)
	if err != nil {
		log.Warnf("fetch failed: %v", err)
		return models.Failed(rawURL, msgFetchFailed)
	}
	if content == "" {
		return models.Failed(rawURL, msgFetchFailed)
	}

	text, err := a.parser.Normalize(content)
	if err != nil {
		log.Warnf("parse failed: %v", err)
		return models.Failed(rawURL, err.Error())
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.Failed(rawURL, err.Error())
	}

	scores, bad, total := a.scorer.Score(text)
	score, rating := classifier.Rate(bad, total)
	log.Debugf("scored: bad=%d total=%d score=%.2f rating=%s", bad, total, score, rating)
	return models.AnalysisResult{
		URL:              rawURL,
		Domain:           u.Host,
		SafetyScore:      math.Round(score*100) / 100,
		Rating:           rating,
		BadWordCount:     bad,
		TotalWordCount:   total,
		CategoryAnalysis: scores,
		Status:           models.StatusSuccess,
	}
}

// AnalyzeQuery discovers candidate pages for query, analyzes them
// concurrently and returns the successful results, safest first. Only a
// discovery failure is returned as an error.
func (a *Analyzer) AnalyzeQuery(ctx context.Context, query string) ([]models.AnalysisResult, error) {
	urls, err := a.discovery.Discover(ctx, query, a.maxResults)
	if err != nil {
		a.log.Errorf("discover %q: %v", query, err)
		return nil, fmt.Errorf("discover urls: %w", err)
	}
	if len(urls) > a.maxResults {
		urls = urls[:a.maxResults]
	}
	if len(urls) == 0 {
		return []models.AnalysisResult{}, nil
	}

	sess := a.newSession()
	defer sess.Close()

	results := make([]models.AnalysisResult, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.AnalyzePage(ctx, sess, u)
		}()
	}
	wg.Wait()

	ok := make([]models.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool { return ok[i].SafetyScore > ok[j].SafetyScore })
	a.log.Infof("query %q: %d/%d pages analyzed", query, len(ok), len(urls))
	return ok, nil
}

// Close releases resources held by the discovery provider, if any.
func (a *Analyzer) Close() error {
	if c, ok := a.discovery.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Run is AnalyzeQuery wrapped with report metadata.
func (a *Analyzer) Run(ctx context.Context, query string) (models.Report, error) {
	results, err := a.AnalyzeQuery(ctx, query)
	if err != nil {
		return models.Report{}, err
	}
	return models.Report{
		Results: results,
		Metadata: models.Metadata{
			Query:        query,
			TotalResults: len(results),
			Timestamp:    a.now().UTC(),
		},
	}, nil
}
