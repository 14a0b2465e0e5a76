package ioutils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"io"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/handiism/synset-downloader/internal/model"
)

// ErrNotColor is returned when an image without full colour depth is
// about to be written.
var ErrNotColor = errors.New("image is not a colour image")

// ImageService decodes downloaded payloads and writes them as JPEG files.
//
// ImageService is used to:
//   - Decode JPEG, PNG, GIF, BMP, TIFF and WebP payloads
//   - Downscale images to fit maximum dimensions
//   - Encode images to JPEG files atomically
//
// Example usage:
//
//	svc := NewImageService(90)
//
//	img, err := svc.Decode(payload)
//	if err != nil || !img.IsColor() {
//	    return // dropped
//	}
//	err = svc.SaveJPEG("/images/n03702248/00000007.jpg", img)
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService encoding with the given JPEG
// quality (1-100). Out of range values fall back to 90.
func NewImageService(quality int) *ImageService {
	if quality < 1 || quality > 100 {
		quality = 90
	}
	return &ImageService{quality: quality}
}

// Decode decodes a raw payload into an image buffer.
//
// Returns an error if the payload is empty, in an unknown format or corrupt.
func (s *ImageService) Decode(data []byte) (*model.DecodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: %w", image.ErrFormat)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return model.NewDecodedImage(img), nil
}

// Fit downscales an image to fit within maxSize x maxSize.
//
// The aspect ratio is preserved. Images already within bounds, and any image
// when maxSize is 0 or less, are returned unchanged.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x666
//	fitted := svc.Fit(img, 1000)
func (s *ImageService) Fit(img *model.DecodedImage, maxSize int) *model.DecodedImage {
	if maxSize <= 0 || (img.Width <= maxSize && img.Height <= maxSize) {
		return img
	}

	width, height := img.Width, img.Height
	if width >= height {
		height = max(1, height*maxSize/width)
		width = maxSize
	} else {
		width = max(1, width*maxSize/height)
		height = maxSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img.Image, img.Image.Bounds(), draw.Over, nil)

	return model.NewDecodedImage(dst)
}

// EncodeJPEG writes img to w as JPEG.
func (s *ImageService) EncodeJPEG(w io.Writer, img *model.DecodedImage) error {
	if !img.IsColor() {
		return ErrNotColor
	}
	return jpeg.Encode(w, img.Image, &jpeg.Options{Quality: s.quality})
}

// SaveJPEG encodes img to path, replacing any existing file. The parent
// directory must already exist.
func (s *ImageService) SaveJPEG(path string, img *model.DecodedImage) error {
	if !img.IsColor() {
		return ErrNotColor
	}
	return WriteFileAtomic(path, func(w io.Writer) error {
		return s.EncodeJPEG(w, img)
	})
}
