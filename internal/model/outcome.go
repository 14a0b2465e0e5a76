package model

import "fmt"

// OutcomeKind tags the variant of a FetchOutcome.
type OutcomeKind int

const (
	// OutcomeBytes means the URL was served directly and Body holds the payload.
	OutcomeBytes OutcomeKind = iota

	// OutcomeRedirected means the server redirected away from the requested
	// URL. The image host uses this to signal a missing image.
	OutcomeRedirected

	// OutcomeFailed means a transient network, TLS or protocol failure.
	OutcomeFailed
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeBytes:
		return "bytes"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// FailureReason classifies why a fetch failed. It is informational only:
// every failure is treated the same way and the item is dropped.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonInvalidURL      FailureReason = "invalid-url"
	ReasonTLS             FailureReason = "tls"
	ReasonTimeout         FailureReason = "timeout"
	ReasonConnectionReset FailureReason = "connection-reset"
	ReasonShortRead       FailureReason = "short-read"
	ReasonHTTPStatus      FailureReason = "http-status"
	ReasonCanceled        FailureReason = "canceled"
	ReasonNetwork         FailureReason = "network"
)

// FetchOutcome is the result of fetching a single URL. It is produced by the
// fetcher, consumed immediately by the decode step and never stored.
type FetchOutcome struct {
	Kind OutcomeKind

	// Body holds the raw payload when Kind is OutcomeBytes.
	Body []byte

	// Reason and Err describe the failure when Kind is OutcomeFailed.
	Reason FailureReason
	Err    error
}

// Bytes returns a successful outcome carrying body.
func Bytes(body []byte) FetchOutcome {
	return FetchOutcome{Kind: OutcomeBytes, Body: body}
}

// Redirected returns the outcome for a redirect away from the requested URL.
func Redirected() FetchOutcome {
	return FetchOutcome{Kind: OutcomeRedirected}
}

// Failed returns a failed outcome.
func Failed(reason FailureReason, err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeFailed, Reason: reason, Err: err}
}

// OK reports whether the outcome carries a payload.
func (o FetchOutcome) OK() bool {
	return o.Kind == OutcomeBytes
}
