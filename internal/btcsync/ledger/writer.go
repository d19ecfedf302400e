// Package ledger writes stable blocks to the store in the background.
package ledger

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/pkg/batcher"
	"go.uber.org/zap"
)

// Writer batches stable blocks into Store. Record never blocks the heartbeat; blocks that do
// not fit the buffer are dropped and logged.
type Writer struct {
	logger  *zap.Logger
	batcher *batcher.Batcher[model.StableBlock]
}

// NewWriter builds a Writer over store.
func NewWriter(logger *zap.Logger, store Store, cfg batcher.Config) *Writer {
	logger = logger.Named("ledger")
	return &Writer{
		logger:  logger,
		batcher: batcher.New(logger, store.InsertStableBlocks, cfg),
	}
}

// Start launches the background flushing.
func (w *Writer) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Stop flushes buffered blocks and waits for the writer to finish.
func (w *Writer) Stop() {
	w.batcher.Stop()
}

// Record queues blocks for writing.
func (w *Writer) Record(blocks []model.StableBlock) {
	if len(blocks) == 0 {
		return
	}
	accepted := w.batcher.Offer(blocks...)
	if dropped := len(blocks) - accepted; dropped > 0 {
		w.logger.Warn("stable blocks dropped",
			zap.Int("dropped", dropped),
			zap.Uint64("first_height", blocks[accepted].Height),
		)
	}
}
