package download

import (
	"fmt"

	ioutils "github.com/handiism/synset-downloader/internal/io"
	"github.com/handiism/synset-downloader/internal/model"
)

// FilePersister writes images as JPEG files below an output directory.
//
// The destination of (category, index) is always
// {outputDir}/{category}/{index:08d}.jpg. Existing files are replaced.
// The category directory must already exist.
type FilePersister struct {
	outputDir string
	images    *ioutils.ImageService
	maxSize   int
}

// NewFilePersister creates a persister. Images larger than maxSize on either
// side are downscaled first; 0 disables downscaling.
func NewFilePersister(outputDir string, images *ioutils.ImageService, maxSize int) *FilePersister {
	return &FilePersister{
		outputDir: outputDir,
		images:    images,
		maxSize:   maxSize,
	}
}

// Persist implements Persister.
func (p *FilePersister) Persist(img *model.DecodedImage, category model.Category, index int) (string, error) {
	path := model.DestinationPath(p.outputDir, category, index)
	if err := p.images.SaveJPEG(path, p.images.Fit(img, p.maxSize)); err != nil {
		return "", fmt.Errorf("persist %s: %w", path, err)
	}
	return path, nil
}
