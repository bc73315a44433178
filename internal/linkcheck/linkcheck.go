// Package linkcheck verifies that catalog and project links still resolve.
package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thithuypham/folio/internal/project"
	"github.com/thithuypham/folio/internal/publication"
)

// Defaults for a Checker.
const (
	DefaultRate      = 2.0 // requests per second
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "folio-linkcheck/1.0"

	cacheTTL        = 30 * time.Minute
	cleanupInterval = time.Hour
)

// Target is one link to check and the record it belongs to.
type Target struct {
	Owner string `json:"owner"` // Publication or project id
	Kind  string `json:"kind"`  // paper, code, demo, ...
	URL   string `json:"url"`
}

// Result is the outcome of checking one Target.
type Result struct {
	Target
	Status int    `json:"status,omitempty"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Cached bool   `json:"cached,omitempty"`
}

// Checker issues rate-limited HEAD requests and remembers each URL's
// outcome so a link shared by several records is fetched once.
type Checker struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	seen       *gocache.Cache
	logger     *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = hc
	}
}

// WithRate sets the request rate in requests per second.
func WithRate(perSecond float64) Option {
	return func(c *Checker) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker creates a link checker.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), 1),
		userAgent:  DefaultUserAgent,
		seen:       gocache.New(cacheTTL, cleanupInterval),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PublicationTargets lists the actionable links of pubs. Placeholder and
// empty links are never checked.
func PublicationTargets(pubs []publication.Publication) []Target {
	var targets []Target
	for _, p := range pubs {
		for _, l := range p.ActionableLinks() {
			targets = append(targets, Target{Owner: p.ID, Kind: string(l.Kind), URL: l.URL})
		}
	}
	return targets
}

// ProjectTargets lists the actionable links of projects.
func ProjectTargets(projects []project.Project) []Target {
	var targets []Target
	for _, p := range projects {
		for _, l := range p.ActionableLinks() {
			targets = append(targets, Target{Owner: p.ID, Kind: l.Type, URL: l.URL})
		}
	}
	return targets
}

// CheckAll checks targets in order. It stops early only when ctx is done,
// returning the results gathered so far with ctx's error.
func (c *Checker) CheckAll(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		r, err := c.Check(ctx, t)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Check checks a single target. A failed request is reported in the
// Result; the error return is reserved for context cancellation.
func (c *Checker) Check(ctx context.Context, t Target) (Result, error) {
	if cached, ok := c.seen.Get(t.URL); ok {
		r := cached.(Result)
		r.Target = t
		r.Cached = true
		return r, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Result{Target: t}, err
	}

	r := Result{Target: t}
	status, err := c.probe(ctx, t.URL)
	if ctx.Err() != nil {
		return r, ctx.Err()
	}
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Status = status
		r.OK = status < 400
	}

	c.logger.Debug("checked link",
		zap.String("owner", t.Owner),
		zap.String("url", t.URL),
		zap.Int("status", r.Status),
		zap.Bool("ok", r.OK),
	)
	if !r.OK {
		c.logger.Warn("broken link", zap.String("owner", t.Owner), zap.String("url", t.URL), zap.String("error", r.Error))
	}

	c.seen.Set(t.URL, r, gocache.DefaultExpiration)
	return r, nil
}

// probe sends HEAD and falls back to GET for servers that reject HEAD.
func (c *Checker) probe(ctx context.Context, url string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		return c.do(ctx, http.MethodGet, url)
	}
	return status, nil
}

func (c *Checker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Broken returns the results that did not resolve.
func Broken(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
