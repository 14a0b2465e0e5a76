// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Directory creation and the per-category output layout
//   - Detection of already downloaded categories
//   - Atomic file writes
//   - Image decoding, downscaling and JPEG encoding
//
// # Output Layout
//
//	filtered, err := ioutils.FilterDownloaded("images", categories)
//	err = ioutils.MakeCategoryDirs("images", filtered.Pending)
//
// # Image Processing
//
// The ImageService handles downloaded payloads:
//
//	svc := ioutils.NewImageService(90)
//
//	img, err := svc.Decode(payload)
//	if err == nil && img.IsColor() {
//	    err = svc.SaveJPEG(path, svc.Fit(img, 1000))
//	}
package ioutils
