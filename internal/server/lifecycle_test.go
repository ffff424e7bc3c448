package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockingService stands in for the HTTP front end: Start blocks until Stop.
type blockingService struct {
	stopped  chan struct{}
	stopOnce atomic.Bool
	startErr error
}

func newBlockingService() *blockingService {
	return &blockingService{stopped: make(chan struct{})}
}

func (s *blockingService) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return nil
}

func (s *blockingService) Stop() {
	if s.stopOnce.CompareAndSwap(false, true) {
		close(s.stopped)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc := newBlockingService()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "http", svc, zaptest.NewLogger(t))
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
	assert.True(t, svc.stopOnce.Load(), "service was never stopped")
}

func TestRunReturnsServiceError(t *testing.T) {
	svc := newBlockingService()
	svc.startErr = errors.New("listen failed")

	err := Run(context.Background(), "http", svc, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, svc.startErr)
	assert.Contains(t, err.Error(), "http")
}

func TestRunReturnsOnCleanServiceExit(t *testing.T) {
	svc := newBlockingService()
	go svc.Stop()

	err := Run(context.Background(), "http", svc, zaptest.NewLogger(t))

	assert.NoError(t, err)
}
