package service

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	SyncerMetrics interface {
		ObserveHeartbeat(mode model.FeatureMode, started time.Time)
		ObserveResponse(kind string)
		ObserveBlock(err error)
		ObserveRequest(err error)
		ObserveChainState(height uint32, utxos, addresses int)
	}
	StableBlockLedger interface {
		Record(blocks []model.StableBlock)
	}
)
