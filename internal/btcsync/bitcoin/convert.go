// Package bitcoin converts fetcher wire structures into btcd chain objects and back.
package bitcoin

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/pkg/safe"
)

// ErrMalformedHash reports a hash field whose byte width is not chainhash.HashSize.
var ErrMalformedHash = errors.New("malformed hash")

// MalformedHashError names the offending field. It matches ErrMalformedHash with errors.Is.
type MalformedHashError struct {
	Field string
	Len   int
}

func (e *MalformedHashError) Error() string {
	return fmt.Sprintf("%s: %s has %d bytes, want %d", ErrMalformedHash, e.Field, e.Len, chainhash.HashSize)
}

func (e *MalformedHashError) Unwrap() error {
	return ErrMalformedHash
}

// ParseHash parses b as a hash in internal byte order.
func ParseHash(field string, b []byte) (chainhash.Hash, error) {
	if len(b) != chainhash.HashSize {
		return chainhash.Hash{}, &MalformedHashError{Field: field, Len: len(b)}
	}
	var h chainhash.Hash
	copy(h[:], b)
	return h, nil
}

// ToBlock maps a wire block into a btcd block.
func ToBlock(src adapter.Block) (*wire.MsgBlock, error) {
	prev, err := ParseHash("header.prev_blockhash", src.Header.PrevBlockHash)
	if err != nil {
		return nil, err
	}
	merkle, err := ParseHash("header.merkle_root", src.Header.MerkleRoot)
	if err != nil {
		return nil, err
	}

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    src.Header.Version,
			PrevBlock:  prev,
			MerkleRoot: merkle,
			Timestamp:  time.Unix(int64(src.Header.Time), 0),
			Bits:       src.Header.Bits,
			Nonce:      src.Header.Nonce,
		},
		Transactions: make([]*wire.MsgTx, 0, len(src.Txdata)),
	}
	for i, tx := range src.Txdata {
		msgTx, err := ToTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("tx %d: %w", i, err)
		}
		block.Transactions = append(block.Transactions, msgTx)
	}
	return block, nil
}

// ToTransaction maps a wire transaction into a btcd transaction.
func ToTransaction(src adapter.Transaction) (*wire.MsgTx, error) {
	tx := &wire.MsgTx{
		Version:  src.Version,
		LockTime: src.LockTime,
		TxIn:     make([]*wire.TxIn, 0, len(src.Input)),
		TxOut:    make([]*wire.TxOut, 0, len(src.Output)),
	}
	for i, in := range src.Input {
		txid, err := ParseHash(fmt.Sprintf("input[%d].previous_output.txid", i), in.PreviousOutput.TxID)
		if err != nil {
			return nil, err
		}
		witness := make(wire.TxWitness, 0, len(in.Witness))
		for _, w := range in.Witness {
			witness = append(witness, bytes.Clone(w))
		}
		tx.TxIn = append(tx.TxIn, &wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: txid, Index: in.PreviousOutput.Vout},
			SignatureScript:  bytes.Clone(in.ScriptSig),
			Witness:          witness,
			Sequence:         in.Sequence,
		})
	}
	for i, out := range src.Output {
		value, err := safe.Int64(out.Value)
		if err != nil {
			return nil, fmt.Errorf("output %d value: %w", i, err)
		}
		tx.TxOut = append(tx.TxOut, &wire.TxOut{
			Value:    value,
			PkScript: bytes.Clone(out.ScriptPubKey),
		})
	}
	return tx, nil
}

// FromBlock maps a btcd block into its wire form.
func FromBlock(src *wire.MsgBlock) (adapter.Block, error) {
	ts, err := safe.Uint32(src.Header.Timestamp.Unix())
	if err != nil {
		return adapter.Block{}, fmt.Errorf("block %s timestamp: %w", src.BlockHash(), err)
	}
	block := adapter.Block{
		Header: adapter.BlockHeader{
			Version:       src.Header.Version,
			PrevBlockHash: bytes.Clone(src.Header.PrevBlock[:]),
			MerkleRoot:    bytes.Clone(src.Header.MerkleRoot[:]),
			Time:          ts,
			Bits:          src.Header.Bits,
			Nonce:         src.Header.Nonce,
		},
		Txdata: make([]adapter.Transaction, 0, len(src.Transactions)),
	}
	for _, tx := range src.Transactions {
		wireTx, err := FromTransaction(tx)
		if err != nil {
			return adapter.Block{}, fmt.Errorf("block %s: %w", src.BlockHash(), err)
		}
		block.Txdata = append(block.Txdata, wireTx)
	}
	return block, nil
}

// FromTransaction maps a btcd transaction into its wire form.
func FromTransaction(src *wire.MsgTx) (adapter.Transaction, error) {
	tx := adapter.Transaction{
		Version:  src.Version,
		LockTime: src.LockTime,
		Input:    make([]adapter.TxIn, 0, len(src.TxIn)),
		Output:   make([]adapter.TxOut, 0, len(src.TxOut)),
	}
	for _, in := range src.TxIn {
		witness := make([][]byte, 0, len(in.Witness))
		for _, w := range in.Witness {
			witness = append(witness, bytes.Clone(w))
		}
		tx.Input = append(tx.Input, adapter.TxIn{
			PreviousOutput: adapter.OutPoint{
				TxID: bytes.Clone(in.PreviousOutPoint.Hash[:]),
				Vout: in.PreviousOutPoint.Index,
			},
			ScriptSig: bytes.Clone(in.SignatureScript),
			Sequence:  in.Sequence,
			Witness:   witness,
		})
	}
	for i, out := range src.TxOut {
		value, err := safe.Uint64(out.Value)
		if err != nil {
			return adapter.Transaction{}, fmt.Errorf("tx %s output %d value: %w", src.TxHash(), i, err)
		}
		tx.Output = append(tx.Output, adapter.TxOut{
			Value:        value,
			ScriptPubKey: bytes.Clone(out.PkScript),
		})
	}
	return tx, nil
}
