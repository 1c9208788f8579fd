package pool

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kuvalkin/accounts/internal/support/log"
)

type Pool struct {
	pool *ants.Pool
	// one token per running task, so waiting for a free worker can honor ctx
	slots chan struct{}
}

func NewPool(workers *int) (*Pool, error) {
	var wInt int
	if workers != nil {
		wInt = *workers
	} else {
		wInt = ants.DefaultAntsPoolSize
	}

	poolLogger := log.Logger().Named("pool")

	pool, err := ants.NewPool(
		wInt,
		ants.WithLogger(&antsLogger{logger: poolLogger}),
	)
	if err != nil {
		return nil, fmt.Errorf("cant create pool: %w", err)
	}

	return &Pool{
		pool:  pool,
		slots: make(chan struct{}, wInt),
	}, nil
}

func (p *Pool) Release() {
	p.pool.Release()
}

// Run executes task on the pool and waits for it or for ctx, whichever comes first.
// ctx also bounds the wait for a free worker. A task abandoned by ctx still
// runs to completion and keeps its worker busy until then.
func (p *Pool) Run(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan struct{})

	// a slot is held, so Submit only waits for a finishing worker to return to the pool
	err := p.pool.Submit(func() {
		defer close(done)
		defer func() { <-p.slots }()

		task()
	})
	if err != nil {
		<-p.slots

		return fmt.Errorf("cant submit task: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type antsLogger struct {
	logger *zap.SugaredLogger
}

func (a *antsLogger) Printf(format string, args ...interface{}) {
	a.logger.Debugf(format, args...)
}
