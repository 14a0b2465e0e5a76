package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Common errors.
var (
	ErrInvalidURL = errors.New("http: invalid url")
	ErrStatus     = errors.New("http: unexpected status")
)

// StatusError is returned when a server answers with a non-2xx status.
// It matches ErrStatus with errors.Is.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Is reports whether target is ErrStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds a whole request including reading the body.
	// Default: 5s
	Timeout time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Size it to the number of concurrent workers.
	// Default: 100
	MaxIdleConnsPerHost int

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:             5 * time.Second,
		MaxIdleConnsPerHost: 100,
		UserAgent:           "SynsetDownloader",
	}
}

// Client wraps HTTP operations used by the downloader.
//
// Client provides:
//   - A configured User-Agent header
//   - A per-request timeout
//   - Body retrieval for URL list lookups
//   - Image fetches that report the post-redirect URL
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//
//	// Fetch the URL list of a synset
//	text, err := client.GetString(ctx, lookupURL)
//
//	// Fetch an image and check whether the host redirected
//	resp, err := client.Fetch(ctx, imageURL)
//	if err == nil && !resp.Redirected() {
//	    use(resp.Body)
//	}
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = defaults.MaxIdleConnsPerHost
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = opts.MaxIdleConnsPerHost
	transport.MaxIdleConns = opts.MaxIdleConnsPerHost * 2
	transport.IdleConnTimeout = 90 * time.Second

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: opts.UserAgent,
	}
}

// Response is the result of a Fetch.
type Response struct {
	// RequestURL is the URL that was requested, in normalized form.
	RequestURL string

	// FinalURL is the URL of the last request after following redirects.
	FinalURL string

	// Body holds the payload. It is nil when the response was redirected.
	Body []byte
}

// Redirected reports whether the server redirected away from RequestURL.
func (r *Response) Redirected() bool {
	return r.FinalURL != r.RequestURL
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The URL is malformed (matches ErrInvalidURL)
//   - The request fails
//   - The response status is not 200 OK (matches ErrStatus)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Fetch performs a GET request following redirects and compares the final
// URL with the requested one. The body is read only when both match, so a
// placeholder served after a redirect is never downloaded.
//
// Non-2xx responses return a *StatusError.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	result := &Response{
		RequestURL: req.URL.String(),
		FinalURL:   resp.Request.URL.String(),
	}
	if result.Redirected() {
		return result, nil
	}

	result.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.ContentLength >= 0 && int64(len(result.Body)) < resp.ContentLength {
		return nil, io.ErrUnexpectedEOF
	}
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if req.URL.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// IsTimeout reports whether err is a request or dial timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
