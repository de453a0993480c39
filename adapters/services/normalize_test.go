package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))

	return buf.Bytes()
}

func TestNormalizingService(t *testing.T) {
	t.Parallel()

	small := pngBytes(t, 8, 8)
	large := pngBytes(t, 64, 32)

	tests := []struct {
		name      string
		in        *rembg.Image
		wantSame  bool
		wantW     int
		wantH     int
		wantMime  string
		wantBytes []byte
	}{
		{
			name:      "within bound",
			in:        &rembg.Image{Name: "s.png", MimeType: "image/png", Data: small},
			wantSame:  true,
			wantMime:  "image/png",
			wantBytes: small,
		},
		{
			name:     "oversized",
			in:       &rembg.Image{Name: "l.png", MimeType: "image/png", Data: large},
			wantW:    16,
			wantH:    8,
			wantMime: "image/png",
		},
		{
			name:      "undecodable",
			in:        &rembg.Image{Name: "x.heic", MimeType: "image/heic", Data: []byte("ftypheic")},
			wantSame:  true,
			wantMime:  "image/heic",
			wantBytes: []byte("ftypheic"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubRemover{}
			svc := NewNormalizingService(stub, 16, zap.NewNop().Sugar())

			_, err := svc.RemoveBackground(context.Background(), tt.in)
			require.NoError(t, err)

			got := stub.lastIn.Load()
			assert.Equal(t, tt.wantMime, got.MimeType)
			assert.Equal(t, tt.in.Name, got.Name)

			if tt.wantSame {
				assert.Same(t, tt.in, got)
				assert.Equal(t, tt.wantBytes, got.Data)
				return
			}

			cfg, err := png.DecodeConfig(bytes.NewReader(got.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}
