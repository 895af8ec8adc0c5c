package analyzer

import (
	"net/http"

	"safesearch-analyzer/internal/classifier"
	"safesearch-analyzer/internal/config"
	"safesearch-analyzer/internal/crawler"
	"safesearch-analyzer/internal/discovery"
	"safesearch-analyzer/internal/ratelimit"
	"safesearch-analyzer/internal/useragent"
	"safesearch-analyzer/pkg/logger"
)

// FromConfig wires the production pipeline: one process-wide limiter shared
// by discovery and every fetch session, rotating headers, and the category
// set from cfg. A nil prov means Google discovery.
func FromConfig(cfg config.Config, prov discovery.Provider, l *logger.Logger) (*Analyzer, error) {
	cats := classifier.DefaultCategories()
	if cfg.CategoriesFile != "" {
		var err error
		if cats, err = classifier.LoadCategories(cfg.CategoriesFile); err != nil {
			return nil, err
		}
	}

	limiter := ratelimit.New(cfg.RequestDelay)
	headers := useragent.New()
	opts := crawler.Options{
		Timeout:     cfg.FetchTimeout,
		SizeCap:     cfg.MaxBodyBytes,
		InsecureTLS: cfg.InsecureTLS,
	}
	if prov == nil {
		client := &http.Client{Transport: crawler.NewTransport(opts), Timeout: cfg.FetchTimeout}
		g := discovery.NewGoogle(cfg.SearchURL, client, limiter, headers)
		if l != nil {
			g.Logger = l
		}
		prov = g
	}
	return New(Config{
		Discovery: prov,
		NewSession: func() Session {
			return crawler.NewHTTPClient(opts, limiter, headers)
		},
		Scorer:     classifier.New(cats...),
		MaxResults: cfg.MaxResults,
		Logger:     l,
	})
}
