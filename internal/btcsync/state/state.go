// Package state holds the synchronization state: the unstable block window, the UTXO index
// of the stable chain and the adapter queues. State is the working form used during a
// heartbeat; Snapshot is the persisted form handed between heartbeats.
package state

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/blocktree"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/utxo"
)

// State is the checked-out, mutable form of a Snapshot.
type State struct {
	Network  model.Network
	Unstable *blocktree.UnstableBlocks
	Index    *utxo.Index
	Queues   *adapter.Queues

	ingested []Ingested
}

// Ingested is a block that became stable and was applied to the index at Height.
type Ingested struct {
	Block  *wire.MsgBlock
	Height uint32
}

// Snapshot is the form of State handed between heartbeats and persisted.
//
// Between heartbeats the UTXO set travels as Index, a handle to the live index; UTXOs is
// filled only by Flatten and Decode. A heartbeat applies stable blocks to Index in place,
// so only the snapshot it returns stays valid.
type Snapshot struct {
	Network            model.Network
	StabilityThreshold uint32
	NextHeight         uint32
	// Blocks holds the serialized unstable tree in pre-order; the first block is the anchor.
	Blocks [][]byte
	UTXOs  []utxo.Entry
	Queues adapter.QueueSnapshot

	Index *utxo.Index `cbor:"-"`
}

// Flatten returns s with the UTXO set copied out of Index into UTXOs and the handle
// dropped. It is the form Encode writes.
func (s Snapshot) Flatten() Snapshot {
	if s.Index == nil {
		return s
	}
	s.UTXOs = s.Index.Entries()
	s.Index = nil
	return s
}

// New returns a state anchored at the genesis block of network.
func New(network model.Network, stabilityThreshold uint32) (*State, error) {
	params, err := bitcoin.ChainParams(network)
	if err != nil {
		return nil, err
	}
	index, err := utxo.New(network)
	if err != nil {
		return nil, err
	}
	return &State{
		Network:  network,
		Unstable: blocktree.NewUnstableBlocks(stabilityThreshold, params.GenesisBlock),
		Index:    index,
		Queues:   adapter.NewQueues(),
	}, nil
}

// NewSnapshot returns the persisted form of New.
func NewSnapshot(network model.Network, stabilityThreshold uint32) (Snapshot, error) {
	st, err := New(network, stabilityThreshold)
	if err != nil {
		return Snapshot{}, err
	}
	return st.ToSnapshot(), nil
}

// FromSnapshot checks out a snapshot into a working State. The index handle is reused
// when present; otherwise the index is rebuilt from UTXOs.
func FromSnapshot(s Snapshot) (*State, error) {
	if len(s.Blocks) == 0 {
		return nil, errors.New("snapshot holds no anchor block")
	}

	blocks := make([]*wire.MsgBlock, 0, len(s.Blocks))
	for i, raw := range s.Blocks {
		var block wire.MsgBlock
		if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("decode unstable block %d: %w", i, err)
		}
		blocks = append(blocks, &block)
	}

	unstable := blocktree.NewUnstableBlocks(s.StabilityThreshold, blocks[0])
	for _, block := range blocks[1:] {
		if err := unstable.Insert(block); err != nil {
			return nil, fmt.Errorf("rebuild unstable tree: %w", err)
		}
	}

	index, err := checkoutIndex(s)
	if err != nil {
		return nil, err
	}
	queues, err := adapter.RestoreQueues(s.Queues)
	if err != nil {
		return nil, fmt.Errorf("restore adapter queues: %w", err)
	}

	return &State{
		Network:  s.Network,
		Unstable: unstable,
		Index:    index,
		Queues:   queues,
	}, nil
}

func checkoutIndex(s Snapshot) (*utxo.Index, error) {
	if s.Index == nil {
		index, err := utxo.Restore(s.Network, s.NextHeight, s.UTXOs)
		if err != nil {
			return nil, fmt.Errorf("restore utxo index: %w", err)
		}
		return index, nil
	}
	if s.Index.Network() != s.Network || s.Index.NextHeight() != s.NextHeight {
		return nil, fmt.Errorf("utxo index at %s height %d does not match snapshot at %s height %d",
			s.Index.Network(), s.Index.NextHeight(), s.Network, s.NextHeight)
	}
	return s.Index, nil
}

// ToSnapshot returns the snapshot form of the state. It shares the UTXO index rather than
// copying it; use Flatten for a detached copy. Blocks recorded for DrainIngested are
// transient and not part of the snapshot.
func (s *State) ToSnapshot() Snapshot {
	blocks := s.Unstable.Blocks()
	raw := make([][]byte, 0, len(blocks))
	for _, block := range blocks {
		var buf bytes.Buffer
		buf.Grow(block.SerializeSize())
		if err := block.Serialize(&buf); err != nil {
			// writes to a bytes.Buffer do not fail
			panic(fmt.Sprintf("state: serialize block %s: %v", block.BlockHash(), err))
		}
		raw = append(raw, buf.Bytes())
	}

	return Snapshot{
		Network:            s.Network,
		StabilityThreshold: s.Unstable.StabilityThreshold(),
		NextHeight:         s.Index.NextHeight(),
		Blocks:             raw,
		Queues:             s.Queues.Snapshot(),
		Index:              s.Index,
	}
}

// DrainIngested returns the blocks applied to the index since the last call.
func (s *State) DrainIngested() []Ingested {
	out := s.ingested
	s.ingested = nil
	return out
}
