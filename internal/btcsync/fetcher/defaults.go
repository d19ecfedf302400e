package fetcher

import "time"

const (
	defaultMaxBlocks        = 100
	defaultMaxNextHashes    = 16
	defaultMaxResponseBytes = 2 << 20
	defaultWorkerCount      = 8
	defaultRPS              = 200
	defaultCacheSize        = 500
	defaultMaxRetries       = 3
	defaultRetryBase        = 200 * time.Millisecond
)
