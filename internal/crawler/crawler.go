
package crawler

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"safesearch-analyzer/internal/ratelimit"
	"safesearch-analyzer/internal/useragent"
)

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrStatus     = errors.New("unexpected http status")
)

type Options struct {
	Timeout     time.Duration // per request, excluding time queued at the limiter
	DialTimeout time.Duration
	SizeCap     int64
	// InsecureTLS skips certificate verification. Coverage of badly
	// configured sites matters more here than transport security.
	InsecureTLS bool
}

type HTTPClient struct {
	client  *http.Client
	opts    Options
	limiter *ratelimit.Limiter
	headers useragent.Supplier
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	if o.SizeCap <= 0 {
		o.SizeCap = 5 * 1024 * 1024
	}
	return o
}

// NewTransport builds the pooled transport used for page fetches. Search
// requests reuse it so both honour the same TLS and dial settings.
func NewTransport(opts Options) *http.Transport {
	opts = opts.withDefaults()
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: opts.InsecureTLS}, //nolint:gosec
	}
}

func NewHTTPClient(opts Options, limiter *ratelimit.Limiter, headers useragent.Supplier) *HTTPClient {
	opts = opts.withDefaults()
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	if headers == nil {
		headers = useragent.New()
	}
	return &HTTPClient{
		client:  &http.Client{Transport: NewTransport(opts)},
		opts:    opts,
		limiter: limiter,
		headers: headers,
	}
}

// Fetch waits for its turn at the limiter, GETs rawURL and returns the body
// decoded to UTF-8. Any non-2xx status is reported as ErrStatus.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if err := h.limiter.WaitTurn(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	for k, v := range h.headers.Headers() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gz.Close()
		body = gz
	}

	// enforce a size cap
	body = io.LimitReader(body, h.opts.SizeCap)
	utf8Body, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		// empty body: nothing to sniff
		return "", nil
	}
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(utf8Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close releases pooled connections. The client must not be used afterwards.
func (h *HTTPClient) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
