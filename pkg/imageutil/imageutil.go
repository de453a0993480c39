package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnknownFormat = errors.New("unknown image format")

// FitWithin bounds the longest side of an encoded image to maxSize.
// It returns the input untouched (and false) when the image already fits or
// maxSize is not positive; otherwise the resized image is re-encoded as PNG
// so transparency survives.
func FitWithin(data []byte, maxSize int) ([]byte, bool, error) {
	if maxSize <= 0 {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return data, false, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}

	if max(cfg.Width, cfg.Height) <= maxSize {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, false, fmt.Errorf("decode image: %w", err)
	}

	w, h := scaledSize(cfg.Width, cfg.Height, maxSize)
	resized := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return data, false, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), true, nil
}

// scaledSize keeps the aspect ratio; the short side never drops below 1px.
func scaledSize(w, h, maxSize int) (int, int) {
	longest := max(w, h)
	scale := float64(maxSize) / float64(longest)

	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}
