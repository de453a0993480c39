package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SeaCloudHub/rembg/adapters/scheduler"
	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type pinger struct {
	pings atomic.Int32
	err   error
}

func (p *pinger) RemoveBackground(context.Context, *rembg.Image) (*rembg.Image, error) {
	return nil, errors.New("not used")
}

func (p *pinger) Ping(ctx context.Context) error {
	p.pings.Add(1)

	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}

	return p.err
}

func TestNewWarmupInvalidSchedule(t *testing.T) {
	_, err := scheduler.NewWarmup("every ten minutes", &pinger{}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestWarmup(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel zapcore.Level
		wantMsg   string
	}{
		{"backend up", nil, zapcore.DebugLevel, "warm-up ping succeeded"},
		{"backend down", errors.New("connection refused"), zapcore.WarnLevel, "warm-up ping failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			svc := &pinger{err: tt.err}

			s, err := scheduler.NewWarmup("@every 1h", svc, zap.New(core).Sugar())
			require.NoError(t, err)

			s.Warmup()

			assert.EqualValues(t, 1, svc.pings.Load())
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.wantLevel, logs.All()[0].Level)
			assert.Equal(t, tt.wantMsg, logs.All()[0].Message)
		})
	}
}

func TestWarmupRunsOnSchedule(t *testing.T) {
	svc := &pinger{}

	s, err := scheduler.NewWarmup("@every 1s", svc, zap.NewNop().Sugar())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return svc.pings.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
