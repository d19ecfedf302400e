package service

import (
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
)

func stableBlock(network model.Network, in state.Ingested) model.StableBlock {
	header := in.Block.Header
	return model.StableBlock{
		Network:    network,
		Height:     uint64(in.Height),
		Hash:       in.Block.BlockHash().String(),
		PrevHash:   header.PrevBlock.String(),
		Timestamp:  header.Timestamp.UTC(),
		Version:    header.Version,
		MerkleRoot: header.MerkleRoot.String(),
		Bits:       header.Bits,
		Nonce:      header.Nonce,
		TXCount:    uint32(len(in.Block.Transactions)),
		Size:       uint32(in.Block.SerializeSize()),
	}
}
