package state

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// InsertBlock adds block to the unstable window and applies every block that became stable
// to the UTXO index. A block that does not extend the window is rejected with
// blocktree.BlockDoesNotExtendTreeError and leaves the state untouched.
func InsertBlock(s *State, block *wire.MsgBlock) error {
	if err := s.Unstable.Insert(block); err != nil {
		return err
	}

	for {
		stable, ok := s.Unstable.PopStable()
		if !ok {
			return nil
		}
		height := s.Index.NextHeight()
		s.Index.Apply(stable)
		s.ingested = append(s.ingested, Ingested{Block: stable, Height: height})
	}
}

// HasBlock reports whether hash is in the unstable window, anchor included.
func HasBlock(s *State, hash chainhash.Hash) bool {
	return s.Unstable.Contains(hash)
}

// UnstableBlocks returns the blocks of the unstable window, anchor first.
func UnstableBlocks(s *State) []*wire.MsgBlock {
	return s.Unstable.Blocks()
}

// MainChainHeight returns the height of the tip of the main chain.
func MainChainHeight(s *State) uint32 {
	return s.Index.NextHeight() + uint32(len(s.Unstable.MainChain())) - 1
}
