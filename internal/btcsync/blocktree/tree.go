// Package blocktree keeps the unstable part of the chain: a tree of blocks rooted at the
// latest stable block, allowing competing branches above it.
package blocktree

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// BlockDoesNotExtendTreeError is returned when a block's parent is not in the tree.
type BlockDoesNotExtendTreeError struct {
	Hash   chainhash.Hash
	Parent chainhash.Hash
}

func (e BlockDoesNotExtendTreeError) Error() string {
	return fmt.Sprintf("block %s does not extend the tree: parent %s is unknown", e.Hash, e.Parent)
}

// Tree is a block with the subtrees of its known children, in insertion order.
type Tree struct {
	block    *wire.MsgBlock
	hash     chainhash.Hash
	children []*Tree
}

// New returns a tree holding only root.
func New(root *wire.MsgBlock) *Tree {
	return &Tree{block: root, hash: root.BlockHash()}
}

// Root returns the block at the root of the tree.
func (t *Tree) Root() *wire.MsgBlock {
	return t.block
}

// Hash returns the root block hash.
func (t *Tree) Hash() chainhash.Hash {
	return t.hash
}

// Children returns the subtrees directly below the root.
func (t *Tree) Children() []*Tree {
	return t.children
}

// Contains reports whether a block with the given hash is in the tree.
func (t *Tree) Contains(hash chainhash.Hash) bool {
	return t.find(hash) != nil
}

// Extend attaches block below its parent. The tree is not modified on error.
func (t *Tree) Extend(block *wire.MsgBlock) error {
	parent := t.find(block.Header.PrevBlock)
	if parent == nil {
		return BlockDoesNotExtendTreeError{Hash: block.BlockHash(), Parent: block.Header.PrevBlock}
	}
	parent.children = append(parent.children, New(block))
	return nil
}

func (t *Tree) find(hash chainhash.Hash) *Tree {
	if t.hash == hash {
		return t
	}
	for _, child := range t.children {
		if found := child.find(hash); found != nil {
			return found
		}
	}
	return nil
}

// Blocks returns every block in pre-order: the root first, children in insertion order.
func (t *Tree) Blocks() []*wire.MsgBlock {
	blocks := make([]*wire.MsgBlock, 0, t.Len())
	t.walk(func(node *Tree) {
		blocks = append(blocks, node.block)
	})
	return blocks
}

func (t *Tree) walk(visit func(*Tree)) {
	visit(t)
	for _, child := range t.children {
		child.walk(visit)
	}
}

// Len returns the number of blocks in the tree.
func (t *Tree) Len() int {
	n := 0
	t.walk(func(*Tree) { n++ })
	return n
}

// Depth returns the number of blocks on the longest path from the root to a leaf.
func (t *Tree) Depth() int {
	deepest := 0
	for _, child := range t.children {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// MainChain returns the longest path starting at the root. Among branches of equal
// length the one inserted first wins.
func (t *Tree) MainChain() []*wire.MsgBlock {
	chain := []*wire.MsgBlock{t.block}
	for node := t; len(node.children) > 0; {
		best, bestDepth := node.children[0], node.children[0].Depth()
		for _, child := range node.children[1:] {
			if d := child.Depth(); d > bestDepth {
				best, bestDepth = child, d
			}
		}
		chain = append(chain, best.block)
		node = best
	}
	return chain
}
