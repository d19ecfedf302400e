// Package utxo maintains the unspent transaction output set of the stable chain.
package utxo

import (
	"bytes"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/dolthub/swiss"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

const initialCapacity = 1 << 16

// Output is a spendable output together with the height of the block that created it.
type Output struct {
	Value    int64
	PkScript []byte
	Height   uint32
}

// Entry pairs an outpoint with its output.
type Entry struct {
	OutPoint wire.OutPoint
	Output   Output
}

// Index is the UTXO set of all ingested blocks plus an address to outpoints index.
// It is safe for concurrent readers alongside a single writer calling Apply.
type Index struct {
	mu         sync.RWMutex
	network    model.Network
	decoder    *bitcoin.ScriptDecoder
	nextHeight uint32
	utxos      *swiss.Map[wire.OutPoint, Output]
	addresses  map[string]map[wire.OutPoint]struct{}
}

// New returns an empty index for network.
func New(network model.Network) (*Index, error) {
	decoder, err := bitcoin.NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &Index{
		network:   network,
		decoder:   decoder,
		utxos:     swiss.NewMap[wire.OutPoint, Output](initialCapacity),
		addresses: make(map[string]map[wire.OutPoint]struct{}),
	}, nil
}

// Restore rebuilds an index from entries. The address index is derived again from scripts.
func Restore(network model.Network, nextHeight uint32, entries []Entry) (*Index, error) {
	idx, err := New(network)
	if err != nil {
		return nil, err
	}
	idx.nextHeight = nextHeight
	for _, e := range entries {
		idx.insert(e.OutPoint, e.Output)
	}
	return idx, nil
}

// Network returns the network the index decodes addresses for.
func (i *Index) Network() model.Network {
	return i.network
}

// NextHeight returns the height the next applied block will get, which equals the number
// of ingested blocks.
func (i *Index) NextHeight() uint32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.nextHeight
}

// Len returns the number of unspent outputs.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.utxos.Count()
}

// AddressIndexLen returns the number of addresses owning at least one unspent output.
func (i *Index) AddressIndexLen() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.addresses)
}

// Apply ingests block at NextHeight: outputs spent by its inputs are removed and its
// spendable outputs are added. Transactions are applied in block order so outputs created
// earlier in the block can be spent later in it.
func (i *Index) Apply(block *wire.MsgBlock) {
	i.mu.Lock()
	defer i.mu.Unlock()

	height := i.nextHeight
	for _, tx := range block.Transactions {
		if !blockchain.IsCoinBaseTx(tx) {
			for _, in := range tx.TxIn {
				i.remove(in.PreviousOutPoint)
			}
		}

		txid := tx.TxHash()
		for idx, out := range tx.TxOut {
			if txscript.IsUnspendable(out.PkScript) {
				continue
			}
			i.insert(wire.OutPoint{Hash: txid, Index: uint32(idx)}, Output{
				Value:    out.Value,
				PkScript: out.PkScript,
				Height:   height,
			})
		}
	}
	i.nextHeight++
}

func (i *Index) insert(op wire.OutPoint, out Output) {
	i.utxos.Put(op, out)
	for _, addr := range i.decoder.Addresses(out.PkScript) {
		set, ok := i.addresses[addr]
		if !ok {
			set = make(map[wire.OutPoint]struct{})
			i.addresses[addr] = set
		}
		set[op] = struct{}{}
	}
}

func (i *Index) remove(op wire.OutPoint) {
	out, ok := i.utxos.Get(op)
	if !ok {
		return
	}
	i.utxos.Delete(op)
	for _, addr := range i.decoder.Addresses(out.PkScript) {
		set := i.addresses[addr]
		delete(set, op)
		if len(set) == 0 {
			delete(i.addresses, addr)
		}
	}
}

// Get returns the unspent output at op.
func (i *Index) Get(op wire.OutPoint) (Output, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.utxos.Get(op)
}

// UTXOs returns the unspent outputs of address, newest first.
func (i *Index) UTXOs(address string) []Entry {
	i.mu.RLock()
	defer i.mu.RUnlock()

	set := i.addresses[address]
	entries := make([]Entry, 0, len(set))
	for op := range set {
		out, _ := i.utxos.Get(op)
		entries = append(entries, Entry{OutPoint: op, Output: out})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Output.Height != entries[b].Output.Height {
			return entries[a].Output.Height > entries[b].Output.Height
		}
		return lessOutPoint(entries[a].OutPoint, entries[b].OutPoint)
	})
	return entries
}

// Balance sums the unspent outputs of address.
func (i *Index) Balance(address string) btcutil.Amount {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var total btcutil.Amount
	for op := range i.addresses[address] {
		out, _ := i.utxos.Get(op)
		total += btcutil.Amount(out.Value)
	}
	return total
}

// Entries returns every unspent output ordered by outpoint.
func (i *Index) Entries() []Entry {
	i.mu.RLock()
	entries := make([]Entry, 0, i.utxos.Count())
	i.utxos.Iter(func(op wire.OutPoint, out Output) bool {
		entries = append(entries, Entry{OutPoint: op, Output: out})
		return false
	})
	i.mu.RUnlock()

	sort.Slice(entries, func(a, b int) bool {
		return lessOutPoint(entries[a].OutPoint, entries[b].OutPoint)
	})
	return entries
}

func lessOutPoint(a, b wire.OutPoint) bool {
	if c := bytes.Compare(a.Hash[:], b.Hash[:]); c != 0 {
		return c < 0
	}
	return a.Index < b.Index
}
