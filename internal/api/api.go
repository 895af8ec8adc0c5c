// Package api exposes the analyzer over HTTP.
package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"safesearch-analyzer/internal/models"
	"safesearch-analyzer/pkg/logger"
)

// Runner analyzes the pages found for a query.
type Runner interface {
	Run(ctx context.Context, query string) (models.Report, error)
}

type Options struct {
	// Throttle caps /analyze calls; each call can trigger many outbound fetches.
	RatePerMinute int
	Burst         int
	ServiceName   string
}

type queryReq struct {
	Query string `json:"query"`
}

func NewRouter(run Runner, l *logger.Logger, opts Options) http.Handler {
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 30
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "safesearch-analyzer"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequest(l))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), opts.Burst)
	r.With(throttle(lim)).Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
		query, err := readQuery(w, req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if query == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please enter a search keyword"})
			return
		}

		report, err := run.Run(req.Context(), query)
		if err != nil {
			l.Errorf("analyze %q: %v", query, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An internal server error occurred: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	return otelhttp.NewHandler(r, opts.ServiceName)
}

// readQuery accepts a JSON body or a form post with a "query" field.
func readQuery(w http.ResponseWriter, r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body queryReq
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
			return "", err
		}
		return strings.TrimSpace(body.Query), nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.PostForm.Get("query")), nil
}

func throttle(lim *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func logRequest(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			l.Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
