// Package useragent supplies browser-like request headers with a rotating
// User-Agent.
package useragent

import (
	"math/rand/v2"
	"sync"
)

var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.67",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}

// Supplier returns a fresh header set per call. It must include User-Agent.
type Supplier interface {
	Headers() map[string]string
}

type Rotator struct {
	agents []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a Rotator over agents, or over a built-in desktop pool when
// agents is empty.
func New(agents ...string) *Rotator {
	if len(agents) == 0 {
		agents = defaultAgents
	}
	return &Rotator{
		agents: append([]string(nil), agents...),
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeeded is New with a deterministic sequence.
func NewSeeded(seed uint64, agents ...string) *Rotator {
	r := New(agents...)
	r.rnd = rand.New(rand.NewPCG(seed, seed))
	return r
}

func (r *Rotator) Headers() map[string]string {
	r.mu.Lock()
	ua := r.agents[r.rnd.IntN(len(r.agents))]
	r.mu.Unlock()
	return map[string]string{
		"User-Agent":      ua,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"DNT":             "1",
	}
}

// Static always hands out the same headers.
type Static map[string]string

func (s Static) Headers() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
