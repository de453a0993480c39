package services

import (
	"context"
	"sync"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type RemoverFactory func(ctx context.Context) (rembg.Service, error)

// LazyService builds the backend on first use and keeps it for the life of
// the process. A failed build is not cached; the next call tries again.
type LazyService struct {
	logger  *zap.SugaredLogger
	factory RemoverFactory

	mu  sync.Mutex
	svc rembg.Service
}

func NewLazyService(logger *zap.SugaredLogger, factory RemoverFactory) *LazyService {
	return &LazyService{
		logger:  logger,
		factory: factory,
	}
}

func (l *LazyService) RemoveBackground(ctx context.Context, img *rembg.Image) (*rembg.Image, error) {
	svc, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}

	return svc.RemoveBackground(ctx, img)
}

func (l *LazyService) Ping(ctx context.Context) error {
	svc, err := l.acquire(ctx)
	if err != nil {
		return err
	}

	return svc.Ping(ctx)
}

func (l *LazyService) acquire(ctx context.Context) (rembg.Service, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc != nil {
		return l.svc, nil
	}

	svc, err := l.factory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build background remover")
	}

	if err := svc.Ping(ctx); err != nil {
		return nil, errors.Wrap(err, "background remover not reachable")
	}

	l.logger.Info("background remover ready")
	l.svc = svc

	return svc, nil
}
