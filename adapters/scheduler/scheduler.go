package scheduler

import (
	"context"
	"time"

	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultPingTimeout = time.Minute

// Scheduler periodically pings the background remover so the backend model
// stays loaded between requests.
type Scheduler struct {
	cron    *cron.Cron
	svc     rembg.Service
	logger  *zap.SugaredLogger
	timeout time.Duration
}

// NewWarmup registers the warm-up job on schedule, a standard cron expression or
// a descriptor such as "@every 10m". The job does not run until Start.
func NewWarmup(schedule string, svc rembg.Service, logger *zap.SugaredLogger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		svc:     svc,
		logger:  logger,
		timeout: DefaultPingTimeout,
	}

	if _, err := s.cron.AddFunc(schedule, s.Warmup); err != nil {
		return nil, errors.Wrapf(err, "parse warm-up schedule %q", schedule)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running warm-up to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Warmup pings the backend once. Failures are only logged.
func (s *Scheduler) Warmup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.svc.Ping(ctx); err != nil {
		s.logger.Warnw("warm-up ping failed", zap.Error(err))
		return
	}

	s.logger.Debugw("warm-up ping succeeded", zap.Duration("took", time.Since(start)))
}
