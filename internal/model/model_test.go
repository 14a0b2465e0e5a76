package model

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestDestinationPath(t *testing.T) {
	tests := []struct {
		category Category
		index    int
		want     string
	}{
		{"n03702248", 0, filepath.Join("out", "n03702248", "00000000.jpg")},
		{"n03702248", 7, filepath.Join("out", "n03702248", "00000007.jpg")},
		{"n02761696", 12345678, filepath.Join("out", "n02761696", "12345678.jpg")},
		{"n02761696", 123456789, filepath.Join("out", "n02761696", "123456789.jpg")},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := DestinationPath("out", tt.category, tt.index); got != tt.want {
				t.Errorf("DestinationPath(%q, %d) = %q, want %q", tt.category, tt.index, got, tt.want)
			}
		})
	}
}

func TestNewWorkItems(t *testing.T) {
	urls := []string{"http://a/1.jpg", "http://a/2.jpg", "http://a/3.jpg"}
	items := NewWorkItems("n03702248", urls)

	if len(items) != len(urls) {
		t.Fatalf("got %d items, want %d", len(items), len(urls))
	}
	for i, item := range items {
		if item.Index != i || item.URL != urls[i] || item.Category != "n03702248" {
			t.Errorf("items[%d] = %+v", i, item)
		}
	}

	if got, want := items[1].Path("/data"), filepath.Join("/data", "n03702248", "00000001.jpg"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestParseCategories(t *testing.T) {
	got := ParseCategories(" n03702248, n02761696\r\nn03702248;;\tn00001740 ")
	want := []Category{"n03702248", "n02761696", "n00001740"}

	if len(got) != len(want) {
		t.Fatalf("ParseCategories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseCategories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := ParseCategories("  \n "); len(got) != 0 {
		t.Errorf("ParseCategories(blank) = %v, want empty", got)
	}
}

func TestDecodedImage_IsColor(t *testing.T) {
	rect := image.Rect(0, 0, 4, 3)
	palette := color.Palette{color.Black, color.White}

	tests := []struct {
		name         string
		img          image.Image
		wantChannels int
		wantColor    bool
	}{
		{"rgba", image.NewRGBA(rect), 4, true},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio420), 3, true},
		{"paletted", image.NewPaletted(rect, palette), 3, true},
		{"cmyk", image.NewCMYK(rect), 4, true},
		{"gray", image.NewGray(rect), 1, false},
		{"gray16", image.NewGray16(rect), 1, false},
		{"alpha", image.NewAlpha(rect), 1, false},
		{"empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecodedImage(tt.img)
			if d.Channels != tt.wantChannels {
				t.Errorf("Channels = %d, want %d", d.Channels, tt.wantChannels)
			}
			if got := d.IsColor(); got != tt.wantColor {
				t.Errorf("IsColor() = %v, want %v", got, tt.wantColor)
			}
		})
	}

	var nilImage *DecodedImage
	if nilImage.IsColor() {
		t.Error("nil image should not be colour")
	}
}

func TestFetchOutcome(t *testing.T) {
	if o := Bytes([]byte("x")); !o.OK() || o.Kind.String() != "bytes" {
		t.Errorf("Bytes() = %+v", o)
	}
	if o := Redirected(); o.OK() || o.Kind != OutcomeRedirected {
		t.Errorf("Redirected() = %+v", o)
	}

	cause := errors.New("boom")
	o := Failed(ReasonTimeout, cause)
	if o.OK() || o.Reason != ReasonTimeout || !errors.Is(o.Err, cause) {
		t.Errorf("Failed() = %+v", o)
	}
}
