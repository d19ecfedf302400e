package blocktree

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// UnstableBlocks holds blocks that may still be superseded by a competing branch. The root
// of the tree is the anchor: the latest block considered stable but not yet handed over.
type UnstableBlocks struct {
	stabilityThreshold uint32
	tree               *Tree
}

// NewUnstableBlocks starts an unstable window anchored at anchor.
func NewUnstableBlocks(stabilityThreshold uint32, anchor *wire.MsgBlock) *UnstableBlocks {
	return &UnstableBlocks{stabilityThreshold: stabilityThreshold, tree: New(anchor)}
}

// StabilityThreshold returns how many blocks the deepest branch must lead by before the
// anchor is popped.
func (u *UnstableBlocks) StabilityThreshold() uint32 {
	return u.stabilityThreshold
}

// Anchor returns the root of the unstable tree.
func (u *UnstableBlocks) Anchor() *wire.MsgBlock {
	return u.tree.Root()
}

// Tree exposes the underlying tree.
func (u *UnstableBlocks) Tree() *Tree {
	return u.tree
}

// Contains reports whether hash is the anchor or an unstable block.
func (u *UnstableBlocks) Contains(hash chainhash.Hash) bool {
	return u.tree.Contains(hash)
}

// Insert attaches block under the anchor or any unstable block. A block already present is
// accepted without changes. On error the window is left untouched.
func (u *UnstableBlocks) Insert(block *wire.MsgBlock) error {
	if u.tree.Contains(block.BlockHash()) {
		return nil
	}
	return u.tree.Extend(block)
}

// Blocks returns all blocks of the window, anchor first, in an order stable across calls.
func (u *UnstableBlocks) Blocks() []*wire.MsgBlock {
	return u.tree.Blocks()
}

// MainChain returns the anchor followed by the longest branch above it.
func (u *UnstableBlocks) MainChain() []*wire.MsgBlock {
	return u.tree.MainChain()
}

// Len returns the number of blocks in the window including the anchor.
func (u *UnstableBlocks) Len() int {
	return u.tree.Len()
}

// PopStable removes and returns the anchor once one of its branches is strictly deeper than
// every sibling and leads them by at least the stability threshold. The leading branch's
// root becomes the new anchor; the other branches are evicted.
func (u *UnstableBlocks) PopStable() (*wire.MsgBlock, bool) {
	children := u.tree.children
	if len(children) == 0 {
		return nil, false
	}

	best, bestDepth, runnerUp := 0, 0, 0
	for i, child := range children {
		d := child.Depth()
		switch {
		case d > bestDepth:
			runnerUp = bestDepth
			best, bestDepth = i, d
		case d > runnerUp:
			runnerUp = d
		}
	}
	if bestDepth == runnerUp || uint32(bestDepth-runnerUp) < u.stabilityThreshold {
		return nil, false
	}

	stable := u.tree.block
	u.tree = children[best]
	return stable, true
}
