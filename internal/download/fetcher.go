package download

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"syscall"

	"github.com/handiism/synset-downloader/internal/http"
	"github.com/handiism/synset-downloader/internal/model"
)

// HTTPFetcher fetches images over HTTP.
//
// A response whose final URL differs from the requested one is reported as
// redirected: the image host answers missing images with a redirect to a
// placeholder. Failures are classified but never retried.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher using client. The client's timeout bounds
// every fetch.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) model.FetchOutcome {
	resp, err := f.client.Fetch(ctx, url)
	if err != nil {
		return model.Failed(ClassifyError(err), err)
	}
	if resp.Redirected() {
		return model.Redirected()
	}
	return model.Bytes(resp.Body)
}

// ClassifyError maps a fetch error to a failure reason.
func ClassifyError(err error) model.FailureReason {
	var (
		certErr      *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
		recordErr    tls.RecordHeaderError
	)

	switch {
	case err == nil:
		return model.ReasonNone
	case errors.Is(err, http.ErrInvalidURL):
		return model.ReasonInvalidURL
	case http.IsTimeout(err):
		return model.ReasonTimeout
	case errors.Is(err, context.Canceled):
		return model.ReasonCanceled
	case errors.As(err, &certErr), errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr), errors.As(err, &invalidErr),
		errors.As(err, &recordErr):
		return model.ReasonTLS
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return model.ReasonConnectionReset
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return model.ReasonShortRead
	case errors.Is(err, http.ErrStatus):
		return model.ReasonHTTPStatus
	default:
		return model.ReasonNetwork
	}
}
