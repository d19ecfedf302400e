package service

import "errors"

// ErrBlockKnown is reported to SyncerMetrics for a block that is already in the unstable
// window. Such blocks are skipped.
var ErrBlockKnown = errors.New("block already known")
