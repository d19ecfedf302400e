package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

// InsertStableBlocks stores ledger rows for blocks that left the unstable window.
func (r *Repository) InsertStableBlocks(ctx context.Context, blocks []model.StableBlock) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_stable_blocks", firstNetwork(blocks), err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	const query = `
INSERT INTO btcsync_stable_blocks (
	network,
	height,
	hash,
	prev_hash,
	timestamp,
	version,
	merkleroot,
	bits,
	nonce,
	tx_count,
	size
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare stable blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			string(block.Network),
			block.Height,
			block.Hash,
			block.PrevHash,
			block.Timestamp,
			block.Version,
			block.MerkleRoot,
			block.Bits,
			block.Nonce,
			block.TXCount,
			block.Size,
		); err != nil {
			return fmt.Errorf("append stable block: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert stable blocks: %w", err)
	}
	return nil
}

func firstNetwork(blocks []model.StableBlock) model.Network {
	if len(blocks) == 0 {
		return ""
	}
	return blocks[0].Network
}
