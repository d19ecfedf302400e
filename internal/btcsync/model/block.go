package model

import "time"

// StableBlock represents a block that left the unstable window and was ingested into the UTXO index.
type StableBlock struct {
	Network    Network
	Height     uint64
	Hash       string
	PrevHash   string
	Timestamp  time.Time
	Version    int32
	MerkleRoot string
	Bits       uint32
	Nonce      uint32
	TXCount    uint32
	Size       uint32
}
