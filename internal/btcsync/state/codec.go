package state

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// snapshotDecMode lifts the default element limits; a snapshot holds the whole UTXO set.
var snapshotDecMode = func() cbor.DecMode {
	decMode, err := cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
		MaxNestedLevels:  256,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return decMode
}()

// Encode serializes a snapshot for storage. The live UTXO index, when present, is
// flattened into UTXOs.
func Encode(s Snapshot) ([]byte, error) {
	data, err := cbor.Marshal(s.Flatten())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode. The result carries no index handle;
// FromSnapshot rebuilds it from UTXOs.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := snapshotDecMode.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
