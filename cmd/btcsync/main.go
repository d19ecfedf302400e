package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/fetcher"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/ledger"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/runner"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/service"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/metrics"
	btcrpc "github.com/goodnatureofminers/blockinsight7000-btcsync/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/pkg/batcher"
)

type config struct {
	Network            string        `long:"network" env:"BTCSYNC_NETWORK" description:"bitcoin network (mainnet, testnet, regtest, signet)" required:"true"`
	Mode               string        `long:"mode" env:"BTCSYNC_MODE" description:"feature mode (enabled, paused, disabled)" default:"enabled"`
	StabilityThreshold uint32        `long:"stability-threshold" env:"BTCSYNC_STABILITY_THRESHOLD" description:"depth lead a block needs over its siblings to become stable" default:"6"`
	TickInterval       time.Duration `long:"tick-interval" env:"BTCSYNC_TICK_INTERVAL" description:"heartbeat interval" default:"1s"`
	SnapshotEvery      int           `long:"snapshot-every" env:"BTCSYNC_SNAPSHOT_EVERY" description:"persist the snapshot every N heartbeats" default:"60"`

	RPCURL         string        `long:"rpc-url" env:"BTCSYNC_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser        string        `long:"rpc-user" env:"BTCSYNC_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword    string        `long:"rpc-password" env:"BTCSYNC_RPC_PASSWORD" description:"Bitcoin RPC password"`
	RPCWaitTimeout time.Duration `long:"rpc-wait-timeout" env:"BTCSYNC_RPC_WAIT_TIMEOUT" description:"how long to wait for the node on startup" default:"2m"`

	FetchMaxBlocks        int `long:"fetch-max-blocks" env:"BTCSYNC_FETCH_MAX_BLOCKS" description:"max blocks per response" default:"100"`
	FetchMaxNextHashes    int `long:"fetch-max-next-hashes" env:"BTCSYNC_FETCH_MAX_NEXT_HASHES" description:"max advisory next hashes per response" default:"16"`
	FetchMaxResponseBytes int `long:"fetch-max-response-bytes" env:"BTCSYNC_FETCH_MAX_RESPONSE_BYTES" description:"serialized block budget per response" default:"2097152"`
	FetchWorkers          int `long:"fetch-workers" env:"BTCSYNC_FETCH_WORKERS" description:"concurrent block downloads" default:"8"`
	FetchRPS              int `long:"fetch-rps" env:"BTCSYNC_FETCH_RPS" description:"node RPC calls per second" default:"200"`
	FetchCacheSize        int `long:"fetch-cache-size" env:"BTCSYNC_FETCH_CACHE_SIZE" description:"blocks kept in the fetcher cache" default:"500"`

	ClickhouseDSN       string        `long:"clickhouse-dsn" env:"BTCSYNC_CLICKHOUSE_DSN" description:"ClickHouse DSN; snapshots and stable blocks are not persisted without it"`
	LedgerBatchSize     int           `long:"ledger-batch-size" env:"BTCSYNC_LEDGER_BATCH_SIZE" description:"stable blocks per insert" default:"500"`
	LedgerFlushInterval time.Duration `long:"ledger-flush-interval" env:"BTCSYNC_LEDGER_FLUSH_INTERVAL" description:"stable block flush interval" default:"5s"`

	Addr        string   `long:"addr" env:"BTCSYNC_ADDR" description:"API and metrics listen address" default:":8001"`
	CORSOrigins []string `long:"cors-origin" env:"BTCSYNC_CORS_ORIGINS" env-delim:"," description:"allowed CORS origins (default any)"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("btcsync failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network, err := model.ParseNetwork(cfg.Network)
	if err != nil {
		return err
	}
	mode, err := model.ParseFeatureMode(cfg.Mode)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("network", string(network)))

	rpc, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init btc rpc client: %w", err)
	}
	defer func() {
		rpc.Shutdown()
		rpc.WaitForShutdown()
	}()
	node := btcrpc.NewObservedClient(rpc, metrics.NewRPCClient(network))
	if err = waitForNode(ctx, logger, node, cfg.RPCWaitTimeout); err != nil {
		return err
	}

	f, err := fetcher.NewFetcher(logger, node, metrics.NewFetcher(network), fetcher.Config{
		MaxBlocks:        cfg.FetchMaxBlocks,
		MaxNextHashes:    cfg.FetchMaxNextHashes,
		MaxResponseBytes: cfg.FetchMaxResponseBytes,
		WorkerCount:      cfg.FetchWorkers,
		RPS:              cfg.FetchRPS,
		CacheSize:        cfg.FetchCacheSize,
	})
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	var (
		store  runner.SnapshotStore
		stable service.StableBlockLedger
	)
	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}
		w := ledger.NewWriter(logger, repo, batcher.Config{
			Size:     cfg.LedgerBatchSize,
			Interval: cfg.LedgerFlushInterval,
		})
		w.Start(context.WithoutCancel(ctx))
		defer w.Stop()
		store, stable = repo, w
	} else {
		logger.Warn("no ClickHouse DSN, snapshots and stable blocks are kept in memory only")
	}

	syncer, err := service.NewSyncer(logger, metrics.NewSyncer(network), stable)
	if err != nil {
		return fmt.Errorf("init syncer: %w", err)
	}

	initial, err := state.NewSnapshot(network, cfg.StabilityThreshold)
	if err != nil {
		return err
	}
	r, err := runner.New(logger, runner.Config{
		Network:       network,
		Mode:          mode,
		Initial:       initial,
		Ticker:        ticker.New(cfg.TickInterval),
		SnapshotEvery: cfg.SnapshotEvery,
		Syncer:        syncer,
		Fetcher:       f,
		Store:         store,
	})
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}
	if err = r.Load(ctx); err != nil {
		return err
	}

	handler, err := transport.NewHandler(logger, network, r, cfg.CORSOrigins)
	if err != nil {
		return err
	}
	srv := newHTTPServer(cfg.Addr, handler)
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to listen and serve", zap.Error(err))
		}
	}()

	logger.Info("btcsync started",
		zap.String("mode", string(mode)),
		zap.Uint32("stability_threshold", cfg.StabilityThreshold),
		zap.Duration("tick_interval", cfg.TickInterval),
	)
	return r.Run(ctx)
}

func newHTTPServer(addr string, handler *transport.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/api/", metrics.InstrumentHandler("api", handler.Routes()))
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
}

func waitForNode(ctx context.Context, logger *zap.Logger, node *btcrpc.ObservedClient, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := clock.Until(ctx, 2*time.Second, func(context.Context) error {
		count, err := node.GetBlockCount()
		if err != nil {
			return err
		}
		logger.Info("node reachable", zap.Int64("block_count", count))
		return nil
	}, func(attempt int, err error) {
		logger.Warn("node not reachable yet", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("wait for node: %w", err)
	}
	return nil
}
