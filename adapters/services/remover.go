package services

import (
	"context"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewRemoverService wires the configured backend behind lazy acquisition
// and, when enabled, input normalization.
func NewRemoverService(cfg *config.Config, logger *zap.SugaredLogger) (rembg.Service, error) {
	var factory RemoverFactory

	switch cfg.Remover.Backend {
	case config.BackendRembg:
		factory = func(context.Context) (rembg.Service, error) {
			return NewRembgService(cfg)
		}
	case config.BackendComfyUI:
		factory = func(context.Context) (rembg.Service, error) {
			return NewComfyUIService(cfg)
		}
	default:
		return nil, errors.Wrapf(rembg.ErrUnsupportedBackend, "backend %q", cfg.Remover.Backend)
	}

	logger = logger.With("backend", cfg.Remover.Backend)

	var svc rembg.Service = NewLazyService(logger, factory)
	if cfg.Remover.MaxInputSize > 0 {
		svc = NewNormalizingService(svc, cfg.Remover.MaxInputSize, logger)
	}

	return svc, nil
}
