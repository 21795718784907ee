package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/metrics"
)

const defaultSideEffectTimeout = 5 * time.Second

// Background runs best-effort side effects detached from the request.
// Failures are logged and counted, never returned.
type Background struct {
	logger  *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewBackground(logger *logrus.Logger, timeout time.Duration) *Background {
	if timeout <= 0 {
		timeout = defaultSideEffectTimeout
	}
	return &Background{logger: logger, timeout: timeout}
}

// Go runs fn in its own goroutine with a context that survives the caller's
// cancellation but is bounded by the configured timeout.
func (b *Background) Go(parent context.Context, kind string, fn func(ctx context.Context) error) {
	if b == nil {
		return
	}
	if parent == nil {
		parent = context.Background()
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), b.timeout)
		defer cancel()

		err := b.run(ctx, fn)
		if err == nil {
			return
		}
		metrics.SideEffectFailures.WithLabelValues(kind).Inc()
		helpers.LogWarn(b.logger, "side effect failed", err, logrus.Fields{"kind": kind})
	}()
}

func (b *Background) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperror.Dependency("background", fmt.Errorf("panic: %v", r))
		}
	}()
	return fn(ctx)
}

// Wait blocks until every side effect started so far has finished.
func (b *Background) Wait() {
	if b == nil {
		return
	}
	b.wg.Wait()
}
