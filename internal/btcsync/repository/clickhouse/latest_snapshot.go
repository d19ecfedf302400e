package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

// LatestSnapshot returns the most recently saved snapshot of network.
func (r *Repository) LatestSnapshot(ctx context.Context, network model.Network) (snapshot model.SnapshotRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_snapshot", network, err, start)
	}()

	const query = `
SELECT main_chain_height, stable_height, data, created_at
FROM btcsync_snapshots
WHERE network = ?
ORDER BY created_at DESC
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, string(network))
	if err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.SnapshotRecord{}, fmt.Errorf("iterate latest snapshot: %w", err)
		}
		err = model.ErrSnapshotNotFound
		return model.SnapshotRecord{}, err
	}

	var data string
	snapshot.Network = network
	if err = rows.Scan(&snapshot.MainChainHeight, &snapshot.StableHeight, &data, &snapshot.CreatedAt); err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("scan latest snapshot: %w", err)
	}
	if err = rows.Err(); err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("iterate latest snapshot: %w", err)
	}
	snapshot.Data = []byte(data)

	return snapshot, nil
}
