package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

type (
	Metrics interface {
		Observe(operation string, network model.Network, err error, started time.Time)
	}
	// Conn is the part of clickhouse.Conn the repository uses.
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
		PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	}
)
