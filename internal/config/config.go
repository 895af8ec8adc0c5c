// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"safesearch-analyzer/internal/discovery"
)

type Config struct {
	Addr           string
	RequestDelay   time.Duration
	FetchTimeout   time.Duration
	MaxResults     int
	MaxBodyBytes   int64
	InsecureTLS    bool
	SearchURL      string
	CategoriesFile string
	LogLevel       string
	RatePerMinute  int
	RateBurst      int
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		RequestDelay:  time.Second,
		FetchTimeout:  10 * time.Second,
		MaxResults:    discovery.DefaultMaxResults,
		MaxBodyBytes:  5 * 1024 * 1024,
		InsecureTLS:   true,
		SearchURL:     discovery.DefaultSearchURL,
		LogLevel:      "info",
		RatePerMinute: 30,
		RateBurst:     5,
	}
}

// Load reads the given .env files (or ./.env when none are named; a missing
// default file is fine) and then the process environment. Variables already
// set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := envParser{lookup: lookup}

	c.Addr = p.str("ANALYZER_ADDR", c.Addr)
	c.RequestDelay = p.duration("ANALYZER_REQUEST_DELAY", c.RequestDelay)
	c.FetchTimeout = p.duration("ANALYZER_FETCH_TIMEOUT", c.FetchTimeout)
	c.MaxResults = p.integer("ANALYZER_MAX_RESULTS", c.MaxResults)
	c.MaxBodyBytes = int64(p.integer("ANALYZER_MAX_BODY_BYTES", int(c.MaxBodyBytes)))
	c.InsecureTLS = p.boolean("ANALYZER_INSECURE_TLS", c.InsecureTLS)
	c.SearchURL = p.str("ANALYZER_SEARCH_URL", c.SearchURL)
	c.CategoriesFile = p.str("ANALYZER_CATEGORIES_FILE", c.CategoriesFile)
	c.LogLevel = p.str("ANALYZER_LOG_LEVEL", c.LogLevel)
	c.RatePerMinute = p.integer("ANALYZER_RATE_PER_MINUTE", c.RatePerMinute)
	c.RateBurst = p.integer("ANALYZER_RATE_BURST", c.RateBurst)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.RequestDelay < 0 {
		errs = append(errs, errors.New("config: request delay must not be negative"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("config: fetch timeout must be positive"))
	}
	if c.MaxResults <= 0 {
		errs = append(errs, errors.New("config: max results must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("config: max body bytes must be positive"))
	}
	if c.RatePerMinute <= 0 || c.RateBurst <= 0 {
		errs = append(errs, errors.New("config: inbound rate and burst must be positive"))
	}
	return errors.Join(errs...)
}

type envParser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *envParser) raw(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *envParser) str(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// bare numbers are seconds
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			p.errs = append(p.errs, fmt.Errorf("config: %s: %w", key, err))
			return def
		}
		d = time.Duration(f * float64(time.Second))
	}
	return d
}

func (p *envParser) integer(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

func (p *envParser) boolean(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	p.errs = append(p.errs, fmt.Errorf("config: %s: invalid boolean %q", key, v))
	return def
}
