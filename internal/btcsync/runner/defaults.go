package runner

import "time"

const (
	defaultSnapshotEvery = 60
	persistTimeout       = 30 * time.Second
)
