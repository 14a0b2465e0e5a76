package model

import (
	"image"
	"image/color"
)

// DecodedImage is an in-memory pixel buffer produced by a decoder.
//
// It is held exclusively by the worker processing its work item until it is
// written to disk or discarded.
type DecodedImage struct {
	Image    image.Image
	Width    int
	Height   int
	Channels int
}

// NewDecodedImage wraps img and derives its dimensions and channel count.
func NewDecodedImage(img image.Image) *DecodedImage {
	bounds := img.Bounds()
	return &DecodedImage{
		Image:    img,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: channelCount(img.ColorModel()),
	}
}

// IsColor reports whether the image has full colour channel depth.
// Single-channel (gray or alpha-only) and empty images are not persistable.
func (d *DecodedImage) IsColor() bool {
	return d != nil && d.Channels >= 3 && d.Width > 0 && d.Height > 0
}

// channelCount maps a colour model to the number of channels it carries.
// Models not listed here (RGBA, NRGBA, YCbCr, CMYK, paletted) are colour.
func channelCount(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return 4
	case color.CMYKModel:
		return 4
	default:
		return 3
	}
}
