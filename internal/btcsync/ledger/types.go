package ledger

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		InsertStableBlocks(ctx context.Context, blocks []model.StableBlock) error
	}
)
