// Package http provides the HTTP client used for URL list lookups and image
// fetches.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request timeouts
//   - Connection pooling sized to the worker count
//   - Redirect detection for image fetches
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	// Fetch a URL list
//	text, err := client.GetString(ctx, "http://www.image-net.org/api/text/imagenet.synset.geturls?wnid=n03702248")
//
//	// Fetch an image
//	resp, err := client.Fetch(ctx, imageURL)
//	if err == nil && resp.Redirected() {
//	    // the host no longer serves this image
//	}
//
// # Errors
//
// Malformed URLs match ErrInvalidURL and non-2xx answers match ErrStatus.
// IsTimeout recognises client, dial and context deadline timeouts.
package http
