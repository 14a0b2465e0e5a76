package imagenet

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/synset-downloader/internal/http"
	"github.com/handiism/synset-downloader/internal/model"
)

// DefaultLookupURL is the ImageNet endpoint listing the image URLs of a synset.
const DefaultLookupURL = "http://www.image-net.org/api/text/imagenet.synset.geturls"

// Options configures a Resolver.
type Options struct {
	// LookupURL is the endpoint queried with ?wnid=<category>.
	LookupURL string

	// MaxRetries is the number of attempts made when the lookup times out.
	// Default: 10
	MaxRetries int

	// RetryCooldown is the pause between attempts.
	// Default: 500ms
	RetryCooldown time.Duration

	// OnRetry is called after every timed out attempt that will be retried.
	OnRetry func(category model.Category, attempt int, err error)
}

// Resolver maps a category to the ordered list of its image URLs.
//
// Example usage:
//
//	resolver := NewResolver(client, Options{LookupURL: DefaultLookupURL})
//	urls, err := resolver.Resolve(ctx, "n03702248")
type Resolver struct {
	client *http.Client
	opts   Options
}

// NewResolver creates a Resolver using client for lookups. The client's
// timeout bounds each attempt.
func NewResolver(client *http.Client, opts Options) *Resolver {
	if opts.LookupURL == "" {
		opts.LookupURL = DefaultLookupURL
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 10
	}
	if opts.RetryCooldown <= 0 {
		opts.RetryCooldown = 500 * time.Millisecond
	}
	return &Resolver{client: client, opts: opts}
}

// Resolve fetches the URL list of category.
//
// Timeouts are retried up to MaxRetries attempts with a fixed cooldown. Any
// other error ends the attempts immediately. On failure the returned slice is
// nil and the caller decides how to proceed; the downloader treats it as an
// empty list.
func (r *Resolver) Resolve(ctx context.Context, category model.Category) ([]string, error) {
	lookupURL, err := r.LookupURL(category)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxRetries; attempt++ {
		body, err := r.client.GetString(ctx, lookupURL)
		if err == nil {
			return ParseURLList(body), nil
		}
		lastErr = err

		if !http.IsTimeout(err) || ctx.Err() != nil || attempt == r.opts.MaxRetries {
			break
		}
		if r.opts.OnRetry != nil {
			r.opts.OnRetry(category, attempt, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.opts.RetryCooldown):
		}
	}

	return nil, fmt.Errorf("resolve %s: %w", category, lastErr)
}

// LookupURL returns the lookup endpoint for category.
func (r *Resolver) LookupURL(category model.Category) (string, error) {
	u, err := url.Parse(r.opts.LookupURL)
	if err != nil {
		return "", fmt.Errorf("parse lookup url: %w", err)
	}
	query := u.Query()
	query.Set("wnid", string(category))
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// Resolution is the outcome of resolving one category.
type Resolution struct {
	Category model.Category
	URLs     []string
	Err      error
}

// ResolveAll resolves categories with at most limit lookups in flight.
// Results keep the order of categories; a failed lookup is reported in its
// Resolution and never cancels the others.
func (r *Resolver) ResolveAll(ctx context.Context, categories []model.Category, limit int) []Resolution {
	if limit < 1 {
		limit = 1
	}

	results := make([]Resolution, len(categories))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, category := range categories {
		g.Go(func() error {
			urls, err := r.Resolve(ctx, category)
			results[i] = Resolution{Category: category, URLs: urls, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ParseURLList extracts image URLs from a lookup response.
//
// The endpoint answers with \r\n separated URLs, possibly HTML-escaped.
// Lines are trimmed and blank lines dropped. Every other line keeps its
// position, so the i-th listed URL is always saved as index i; malformed
// lines are left for the fetcher to reject.
//
// Example:
//
//	ParseURLList("http://a/1.jpg\r\nwww.b/2.jpg\r\nhttp://a/3.jpg?x=1&amp;y=2\r\n")
//	// [http://a/1.jpg www.b/2.jpg http://a/3.jpg?x=1&y=2]
func ParseURLList(body string) []string {
	body = html.UnescapeString(body)

	lines := strings.Split(body, "\n")
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}
