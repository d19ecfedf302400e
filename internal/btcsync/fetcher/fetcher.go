// Package fetcher answers adapter requests from a bitcoind-compatible RPC node.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/pkg/workerpool"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sethvargo/go-retry"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Config bounds the work done for a single request. Zero values fall back to defaults.
// MaxNextHashes also bounds how far the node's chain is walked past the fetched blocks,
// one GetBlockHash call per advisory hash.
type Config struct {
	MaxBlocks        int
	MaxNextHashes    int
	MaxResponseBytes int
	WorkerCount      int
	RPS              int
	CacheSize        int
	MaxRetries       uint64
	RetryBase        time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxBlocks <= 0 {
		c.MaxBlocks = defaultMaxBlocks
	}
	if c.MaxNextHashes <= 0 {
		c.MaxNextHashes = defaultMaxNextHashes
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.RPS <= 0 {
		c.RPS = defaultRPS
	}
	if c.CacheSize <= 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryBase <= 0 {
		c.RetryBase = defaultRetryBase
	}
	return c
}

// Fetcher is the adapter side of the request/response queue.
type Fetcher struct {
	logger  *zap.Logger
	rpc     RPCClient
	metrics FetcherMetrics
	cfg     Config
	limiter ratelimit.Limiter
	blocks  *lru.Cache[chainhash.Hash, *wire.MsgBlock]
}

// NewFetcher builds a Fetcher.
func NewFetcher(logger *zap.Logger, rpc RPCClient, metrics FetcherMetrics, cfg Config) (*Fetcher, error) {
	if rpc == nil {
		return nil, errors.New("rpc client is required")
	}
	if metrics == nil {
		return nil, errors.New("fetcher metrics is required")
	}
	cfg = cfg.withDefaults()
	cache, err := lru.New[chainhash.Hash, *wire.MsgBlock](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create block cache: %w", err)
	}
	return &Fetcher{
		logger:  logger.Named("fetcher"),
		rpc:     rpc,
		metrics: metrics,
		cfg:     cfg,
		limiter: ratelimit.New(cfg.RPS),
		blocks:  cache,
	}, nil
}

// Handle answers req. It always returns a response of the matching kind; failures are
// logged and answered with an empty response so the caller's request slot clears.
func (f *Fetcher) Handle(ctx context.Context, req adapter.Request) adapter.Response {
	started := time.Now()
	kind := adapter.RequestKind(req)

	switch r := req.(type) {
	case *adapter.GetSuccessorsRequest:
		resp, err := f.getSuccessors(ctx, r)
		if err != nil {
			f.logger.Warn("get successors failed, answering empty", zap.Error(err))
			resp = &adapter.GetSuccessorsResponse{}
		}
		f.metrics.ObserveHandle(kind, err, len(resp.Blocks), started)
		return resp
	case *adapter.SendTransactionRequest:
		err := f.sendTransaction(ctx, r)
		if err != nil {
			f.logger.Warn("send transaction failed", zap.Error(err))
		}
		f.metrics.ObserveHandle(kind, err, 0, started)
		return &adapter.SendTransactionResponse{}
	default:
		panic(fmt.Sprintf("fetcher: unhandled request type %T", req))
	}
}

func (f *Fetcher) getSuccessors(ctx context.Context, req *adapter.GetSuccessorsRequest) (*adapter.GetSuccessorsResponse, error) {
	anchor, err := bitcoin.ParseHash("anchor", req.Anchor)
	if err != nil {
		return nil, err
	}
	processed := make(map[chainhash.Hash]struct{}, len(req.ProcessedBlockHashes))
	for i, raw := range req.ProcessedBlockHashes {
		hash, err := bitcoin.ParseHash(fmt.Sprintf("processed_block_hashes[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		processed[hash] = struct{}{}
	}

	header, err := call(ctx, f, func() (*btcjson.GetBlockHeaderVerboseResult, error) {
		return f.rpc.GetBlockHeaderVerbose(&anchor)
	})
	if err != nil {
		return nil, fmt.Errorf("get anchor header %s: %w", anchor, err)
	}
	if header.Confirmations < 0 {
		f.logger.Info("anchor is not on the node's main chain", zap.Stringer("anchor", anchor))
		return &adapter.GetSuccessorsResponse{}, nil
	}

	tip, err := call(ctx, f, f.rpc.GetBlockCount)
	if err != nil {
		return nil, fmt.Errorf("get block count: %w", err)
	}

	var wanted, next []chainhash.Hash
	for height := int64(header.Height) + 1; height <= tip; height++ {
		if len(wanted) >= f.cfg.MaxBlocks && len(next) >= f.cfg.MaxNextHashes {
			break
		}
		h := height
		hash, err := call(ctx, f, func() (*chainhash.Hash, error) {
			return f.rpc.GetBlockHash(h)
		})
		if err != nil {
			return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
		}
		if _, ok := processed[*hash]; ok {
			continue
		}
		if len(wanted) < f.cfg.MaxBlocks {
			wanted = append(wanted, *hash)
		} else {
			next = append(next, *hash)
		}
	}

	blocks, err := f.fetchBlocks(ctx, wanted)
	if err != nil {
		return nil, err
	}

	resp := &adapter.GetSuccessorsResponse{}
	size := 0
	for i, block := range blocks {
		blockSize := block.SerializeSize()
		if len(resp.Blocks) > 0 && size+blockSize > f.cfg.MaxResponseBytes {
			next = append(append([]chainhash.Hash(nil), wanted[i:]...), next...)
			break
		}
		wb, err := bitcoin.FromBlock(block)
		if err != nil {
			return nil, fmt.Errorf("convert block %s: %w", wanted[i], err)
		}
		resp.Blocks = append(resp.Blocks, wb)
		size += blockSize
	}
	if len(next) > f.cfg.MaxNextHashes {
		next = next[:f.cfg.MaxNextHashes]
	}
	for _, hash := range next {
		h := hash
		resp.Next = append(resp.Next, h[:])
	}

	f.logger.Debug("answering get successors",
		zap.Stringer("anchor", anchor),
		zap.Int("blocks", len(resp.Blocks)),
		zap.Int("next", len(resp.Next)),
		zap.Int("bytes", size),
	)
	return resp, nil
}

func (f *Fetcher) fetchBlocks(ctx context.Context, hashes []chainhash.Hash) ([]*wire.MsgBlock, error) {
	return workerpool.Map(ctx, f.cfg.WorkerCount, hashes, f.block)
}

func (f *Fetcher) block(ctx context.Context, hash chainhash.Hash) (*wire.MsgBlock, error) {
	if block, ok := f.blocks.Get(hash); ok {
		f.metrics.ObserveCache(true)
		return block, nil
	}
	f.metrics.ObserveCache(false)

	block, err := call(ctx, f, func() (*wire.MsgBlock, error) {
		return f.rpc.GetBlock(&hash)
	})
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	f.blocks.Add(hash, block)
	return block, nil
}

func (f *Fetcher) sendTransaction(ctx context.Context, req *adapter.SendTransactionRequest) error {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(req.Transaction)); err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}
	txid, err := call(ctx, f, func() (*chainhash.Hash, error) {
		return f.rpc.SendRawTransaction(&tx, false)
	})
	if err != nil {
		return fmt.Errorf("relay transaction %s: %w", tx.TxHash(), err)
	}
	f.logger.Info("transaction relayed", zap.Stringer("txid", txid))
	return nil
}

// call runs fn under the rate limiter, retrying failures with exponential backoff.
func call[T any](ctx context.Context, f *Fetcher, fn func() (T, error)) (T, error) {
	var out T
	backoff := retry.WithMaxRetries(f.cfg.MaxRetries, retry.NewExponential(f.cfg.RetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		f.limiter.Take()
		v, err := fn()
		if err != nil {
			return retry.RetryableError(err)
		}
		out = v
		return nil
	})
	return out, err
}
