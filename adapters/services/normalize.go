package services

import (
	"context"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/imageutil"
	"go.uber.org/zap"
)

// NormalizingService shrinks oversized inputs before handing them on.
type NormalizingService struct {
	next    rembg.Service
	maxSize int
	logger  *zap.SugaredLogger
}

func NewNormalizingService(next rembg.Service, maxSize int, logger *zap.SugaredLogger) *NormalizingService {
	return &NormalizingService{
		next:    next,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (s *NormalizingService) RemoveBackground(ctx context.Context, img *rembg.Image) (*rembg.Image, error) {
	if img.IsEmpty() {
		return s.next.RemoveBackground(ctx, img)
	}

	data, resized, err := imageutil.FitWithin(img.Data, s.maxSize)
	if err != nil {
		// let the backend judge inputs we cannot decode
		s.logger.Debugw("input forwarded as is", "name", img.Name, "error", err)

		return s.next.RemoveBackground(ctx, img)
	}

	if resized {
		img = &rembg.Image{
			Name:     img.Name,
			MimeType: "image/png",
			Data:     data,
		}
	}

	return s.next.RemoveBackground(ctx, img)
}

func (s *NormalizingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}
