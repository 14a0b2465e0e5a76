package download

import (
	"context"

	"github.com/handiism/synset-downloader/internal/model"
)

// Fetcher retrieves a URL and classifies the outcome.
type Fetcher interface {
	Fetch(ctx context.Context, url string) model.FetchOutcome
}

// Decoder turns a raw payload into an image buffer, or fails.
type Decoder interface {
	Decode(data []byte) (*model.DecodedImage, error)
}

// Persister writes a decoded image to the destination of a work item and
// returns the written path.
type Persister interface {
	Persist(img *model.DecodedImage, category model.Category, index int) (string, error)
}

// Display renders download progress. Advance is called with a monotonic
// done count from a single goroutine.
type Display interface {
	Start(total int)
	Advance(done, total int)
	Finish(done, total int)
}
