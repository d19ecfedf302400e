// Package chaintest builds small block chains for tests.
package chaintest

import (
	"encoding/binary"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Coinbase returns a coinbase transaction paying value to pkScript. The tag keeps txids of
// otherwise identical coinbases distinct.
func Coinbase(tag uint32, value int64, pkScript []byte) *wire.MsgTx {
	sigScript := make([]byte, 4)
	binary.LittleEndian.PutUint32(sigScript, tag)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.MaxPrevOutIndex},
		SignatureScript:  sigScript,
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(value, pkScript))
	return tx
}

// Spend returns a transaction spending prev and paying value to pkScript.
func Spend(prev wire.OutPoint, value int64, pkScript []byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&prev, nil, nil))
	tx.AddTxOut(wire.NewTxOut(value, pkScript))
	return tx
}

// Child returns a block on top of parent. Blocks with the same parent and nonce are identical.
func Child(parent *wire.MsgBlock, nonce uint32, txs ...*wire.MsgTx) *wire.MsgBlock {
	return ChildOf(parent.BlockHash(), parent.Header.Timestamp, nonce, txs...)
}

// ChildOf returns a block whose parent hash is prev.
func ChildOf(prev chainhash.Hash, parentTime time.Time, nonce uint32, txs ...*wire.MsgTx) *wire.MsgBlock {
	if len(txs) == 0 {
		txs = []*wire.MsgTx{Coinbase(nonce, 50*btcutil.SatoshiPerBitcoin, nil)}
	}

	wrapped := make([]*btcutil.Tx, 0, len(txs))
	for _, tx := range txs {
		wrapped = append(wrapped, btcutil.NewTx(tx))
	}
	store := blockchain.BuildMerkleTreeStore(wrapped, false)
	merkle := *store[len(store)-1]

	block := wire.NewMsgBlock(wire.NewBlockHeader(1, &prev, &merkle, 0x207fffff, nonce))
	block.Header.Timestamp = parentTime.Add(10 * time.Minute).Truncate(time.Second)
	for _, tx := range txs {
		if err := block.AddTransaction(tx); err != nil {
			panic(err)
		}
	}
	return block
}

// Chain returns n blocks extending parent, each the child of the previous one.
func Chain(parent *wire.MsgBlock, n int, nonceBase uint32) []*wire.MsgBlock {
	blocks := make([]*wire.MsgBlock, 0, n)
	for i := 0; i < n; i++ {
		next := Child(parent, nonceBase+uint32(i))
		blocks = append(blocks, next)
		parent = next
	}
	return blocks
}
