package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

// SaveSnapshot appends an encoded snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot model.SnapshotRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("save_snapshot", snapshot.Network, err, start)
	}()

	const query = `
INSERT INTO btcsync_snapshots (
	network,
	main_chain_height,
	stable_height,
	data,
	created_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare snapshot batch: %w", err)
	}

	if err = batch.Append(
		string(snapshot.Network),
		snapshot.MainChainHeight,
		snapshot.StableHeight,
		string(snapshot.Data),
		snapshot.CreatedAt,
	); err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}
