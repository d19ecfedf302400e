// Package batcher buffers items in the background and hands them to a sink in batches.
package batcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Config sizes a Batcher. Zero values fall back to Size 100, Interval 1s, RPS 10 and a buffer
// of twice Size.
type Config struct {
	Size     int
	Interval time.Duration
	RPS      int
	Buffer   int
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = 100
	}
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.RPS <= 0 {
		c.RPS = 10
	}
	if c.Buffer <= 0 {
		c.Buffer = c.Size * 2
	}
	return c
}

// Batcher collects items and flushes them when Size is reached, every Interval and on Stop.
// Flushes are rate limited to RPS.
type Batcher[T any] struct {
	logger *zap.Logger
	sink   func(context.Context, []T) error
	cfg    Config
	rl     ratelimit.Limiter
	items  chan T

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher that writes batches to sink.
func New[T any](logger *zap.Logger, sink func(context.Context, []T) error, cfg Config) *Batcher[T] {
	cfg = cfg.withDefaults()
	return &Batcher[T]{
		logger: logger,
		sink:   sink,
		cfg:    cfg,
		rl:     ratelimit.New(cfg.RPS),
		items:  make(chan T, cfg.Buffer),
		stop:   make(chan struct{}),
	}
}

// Start launches the flushing loop. ctx is handed to the sink; the final flush after ctx
// is done or Stop is called runs without its cancellation.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes what is buffered and waits for the loop to exit. It is safe to call twice.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Offer queues as many items as fit without blocking and returns how many were accepted.
// Nothing is accepted once the batcher is stopped.
func (b *Batcher[T]) Offer(items ...T) int {
	select {
	case <-b.stop:
		return 0
	default:
	}
	for i, item := range items {
		select {
		case b.items <- item:
		default:
			return i
		}
	}
	return len(items)
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.Size)
	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}
		b.rl.Take()
		if err := b.sink(ctx, buf); err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		}
		buf = make([]T, 0, b.cfg.Size)
	}
	drain := func() {
		ctx := context.WithoutCancel(ctx)
		for {
			select {
			case item := <-b.items:
				buf = append(buf, item)
				if len(buf) >= b.cfg.Size {
					flush(ctx)
				}
			default:
				flush(ctx)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return
		case <-b.stop:
			drain()
			return
		case item := <-b.items:
			buf = append(buf, item)
			if len(buf) >= b.cfg.Size {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}
