package model

import (
	"errors"
	"time"
)

// SnapshotRecord is an encoded synchronization snapshot as stored between process restarts.
type SnapshotRecord struct {
	Network         Network
	MainChainHeight uint32
	StableHeight    uint32
	Data            []byte
	CreatedAt       time.Time
}

// ErrSnapshotNotFound is returned by snapshot stores holding nothing for a network.
var ErrSnapshotNotFound = errors.New("snapshot not found")
