// Package service implements the block synchronization heartbeat.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
	"go.uber.org/zap"
)

// Syncer advances a synchronization snapshot by one tick.
type Syncer struct {
	logger  *zap.Logger
	metrics SyncerMetrics
	ledger  StableBlockLedger
}

// NewSyncer builds a Syncer. ledger is optional.
func NewSyncer(logger *zap.Logger, metrics SyncerMetrics, ledger StableBlockLedger) (*Syncer, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if metrics == nil {
		return nil, errors.New("syncer metrics is required")
	}
	return &Syncer{
		logger:  logger.Named("syncer"),
		metrics: metrics,
		ledger:  ledger,
	}, nil
}

// Heartbeat drains every queued adapter response into the block tree, reports the chain state
// and, when mode is FeatureEnabled and no request is outstanding, enqueues a GetSuccessors
// request. Recoverable failures are logged and never abort the tick.
func (s *Syncer) Heartbeat(snapshot state.Snapshot, mode model.FeatureMode) state.Snapshot {
	started := time.Now()
	defer s.metrics.ObserveHeartbeat(mode, started)

	st, err := state.FromSnapshot(snapshot)
	if err != nil {
		panic(fmt.Sprintf("heartbeat: check out snapshot: %v", err))
	}
	logger := s.logger.With(zap.String("network", string(st.Network)))

	s.processAdapterResponses(logger, st)
	s.recordStableBlocks(st)

	s.metrics.ObserveChainState(state.MainChainHeight(st), st.Index.Len(), st.Index.AddressIndexLen())

	if mode == model.FeatureEnabled && !st.Queues.HasInFlightRequest() {
		req := getSuccessorsRequest(st)
		if qerr := st.Queues.PushRequest(req); qerr != nil {
			logger.Error("request not sent", zap.Error(qerr))
			s.metrics.ObserveRequest(qerr)
		} else {
			anchor, _ := chainhash.NewHash(req.Anchor)
			logger.Info("sending get successors request",
				zap.Stringer("anchor", anchor),
				zap.Int("processed_blocks", len(req.ProcessedBlockHashes)),
			)
			s.metrics.ObserveRequest(nil)
		}
	}

	return st.ToSnapshot()
}

func (s *Syncer) processAdapterResponses(logger *zap.Logger, st *state.State) {
	for {
		resp, ok := st.Queues.PopResponse()
		if !ok {
			return
		}
		s.metrics.ObserveResponse(adapter.ResponseKind(resp))

		switch r := resp.(type) {
		case *adapter.GetSuccessorsResponse:
			s.processSuccessors(logger, st, r)
		case *adapter.SendTransactionResponse:
			logger.Debug("ignoring send transaction response")
		default:
			panic(fmt.Sprintf("heartbeat: unhandled response type %T", resp))
		}
	}
}

func (s *Syncer) processSuccessors(logger *zap.Logger, st *state.State, resp *adapter.GetSuccessorsResponse) {
	logger.Debug("received successors",
		zap.Int("blocks", len(resp.Blocks)),
		zap.Int("next", len(resp.Next)),
	)
	for _, next := range resp.Next {
		if hash, err := bitcoin.ParseHash("next", next); err == nil {
			logger.Debug("advisory next block", zap.Stringer("hash", hash))
		}
	}

	for i, wireBlock := range resp.Blocks {
		block, err := bitcoin.ToBlock(wireBlock)
		if err != nil {
			logger.Error("block not translated", zap.Int("position", i), zap.Error(err))
			s.metrics.ObserveBlock(err)
			continue
		}

		hash := block.BlockHash()
		if state.HasBlock(st, hash) {
			logger.Debug("block already known", zap.Stringer("hash", hash))
			s.metrics.ObserveBlock(ErrBlockKnown)
			continue
		}
		logger.Debug("received block", zap.Stringer("hash", hash))
		if err = state.InsertBlock(st, block); err != nil {
			logger.Error("block rejected", zap.Stringer("hash", hash), zap.Error(err))
			s.metrics.ObserveBlock(err)
			continue
		}
		s.metrics.ObserveBlock(nil)
	}
}

func (s *Syncer) recordStableBlocks(st *state.State) {
	ingested := st.DrainIngested()
	if s.ledger == nil || len(ingested) == 0 {
		return
	}
	blocks := make([]model.StableBlock, 0, len(ingested))
	for _, in := range ingested {
		blocks = append(blocks, stableBlock(st.Network, in))
	}
	s.ledger.Record(blocks)
}

// getSuccessorsRequest uses the first unstable block as anchor and the rest as processed hashes.
func getSuccessorsRequest(st *state.State) *adapter.GetSuccessorsRequest {
	blocks := state.UnstableBlocks(st)
	if len(blocks) == 0 {
		panic("heartbeat: unstable block set is empty; the tree lost its anchor")
	}

	anchor := blocks[0].BlockHash()
	processed := make([][]byte, 0, len(blocks)-1)
	for _, block := range blocks[1:] {
		hash := block.BlockHash()
		processed = append(processed, hash[:])
	}
	return &adapter.GetSuccessorsRequest{
		Anchor:               anchor[:],
		ProcessedBlockHashes: processed,
	}
}
