package runner

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Syncer interface {
		Heartbeat(snapshot state.Snapshot, mode model.FeatureMode) state.Snapshot
	}
	Fetcher interface {
		Handle(ctx context.Context, req adapter.Request) adapter.Response
	}
	SnapshotStore interface {
		SaveSnapshot(ctx context.Context, snapshot model.SnapshotRecord) error
		LatestSnapshot(ctx context.Context, network model.Network) (model.SnapshotRecord, error)
	}
)
