// Package runner hosts the heartbeat: it schedules ticks, hands in-flight requests to the
// fetcher, delivers responses back into the snapshot and persists it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
	"github.com/lightningnetwork/lnd/ticker"
	"go.uber.org/zap"
)

// Config configures a Runner. Store may be nil, in which case nothing is persisted.
type Config struct {
	Network       model.Network
	Mode          model.FeatureMode
	Initial       state.Snapshot
	Ticker        ticker.Ticker
	SnapshotEvery int
	Syncer        Syncer
	Fetcher       Fetcher
	Store         SnapshotStore
}

// Runner owns the current snapshot and drives it forward once per tick.
type Runner struct {
	logger        *zap.Logger
	network       model.Network
	mode          model.FeatureMode
	ticker        ticker.Ticker
	snapshotEvery int
	syncer        Syncer
	fetcher       Fetcher
	store         SnapshotStore
	now           func() time.Time

	responses  chan adapter.Response
	dispatched bool
	ticks      int

	mu       sync.RWMutex
	snapshot state.Snapshot
	view     *state.State
}

// New builds a Runner.
func New(logger *zap.Logger, cfg Config) (*Runner, error) {
	if cfg.Syncer == nil {
		return nil, errors.New("syncer is required")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if cfg.Ticker == nil {
		return nil, errors.New("ticker is required")
	}
	if cfg.Initial.Network != cfg.Network {
		return nil, fmt.Errorf("initial snapshot is for %q, runner for %q", cfg.Initial.Network, cfg.Network)
	}
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = defaultSnapshotEvery
	}
	return &Runner{
		logger:        logger.Named("runner").With(zap.String("network", string(cfg.Network))),
		network:       cfg.Network,
		mode:          cfg.Mode,
		ticker:        cfg.Ticker,
		snapshotEvery: cfg.SnapshotEvery,
		syncer:        cfg.Syncer,
		fetcher:       cfg.Fetcher,
		store:         cfg.Store,
		now:           time.Now,
		responses:     make(chan adapter.Response, 1),
		snapshot:      cfg.Initial,
	}, nil
}

// Load replaces the current snapshot with the latest stored one, if any.
func (r *Runner) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	rec, err := r.store.LatestSnapshot(ctx, r.network)
	if errors.Is(err, model.ErrSnapshotNotFound) {
		r.logger.Info("no stored snapshot, starting from genesis")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load latest snapshot: %w", err)
	}

	snapshot, err := state.Decode(rec.Data)
	if err != nil {
		return err
	}
	if snapshot.Network != r.network {
		return fmt.Errorf("stored snapshot is for %q, runner for %q", snapshot.Network, r.network)
	}
	st, err := state.FromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("stored snapshot: %w", err)
	}

	r.mu.Lock()
	r.setSnapshot(st.ToSnapshot())
	r.mu.Unlock()

	r.logger.Info("snapshot restored",
		zap.Uint32("main_chain_height", rec.MainChainHeight),
		zap.Uint32("stable_height", rec.StableHeight),
		zap.Time("created_at", rec.CreatedAt),
	)
	return nil
}

// Run ticks until ctx is done, then persists the final snapshot.
func (r *Runner) Run(ctx context.Context) error {
	r.ticker.Resume()
	defer r.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.persistFinal(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-r.ticker.Ticks():
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	r.mu.Lock()
	r.deliverResponse()
	r.setSnapshot(r.syncer.Heartbeat(r.snapshot, r.mode))
	req := r.inFlightRequest()
	r.mu.Unlock()

	if req != nil && !r.dispatched {
		r.dispatch(ctx, req)
	}

	r.ticks++
	if r.ticks%r.snapshotEvery == 0 {
		if err := r.persist(ctx); err != nil {
			r.logger.Error("snapshot not persisted", zap.Error(err))
		}
	}
}

// deliverResponse moves a finished fetcher response into the snapshot queues. Must hold mu.
func (r *Runner) deliverResponse() {
	select {
	case resp := <-r.responses:
		r.dispatched = false
		queues, err := adapter.RestoreQueues(r.snapshot.Queues)
		if err != nil {
			r.logger.Error("response not delivered", zap.Error(err))
			return
		}
		if err = queues.PushResponse(resp); err != nil {
			r.logger.Error("response not delivered", zap.String("kind", adapter.ResponseKind(resp)), zap.Error(err))
			return
		}
		r.snapshot.Queues = queues.Snapshot()
	default:
	}
}

// inFlightRequest returns the outstanding request of the current snapshot. Must hold mu.
func (r *Runner) inFlightRequest() adapter.Request {
	queues, err := adapter.RestoreQueues(r.snapshot.Queues)
	if err != nil {
		r.logger.Error("queues not readable", zap.Error(err))
		return nil
	}
	req, ok := queues.InFlightRequest()
	if !ok {
		return nil
	}
	return req
}

func (r *Runner) dispatch(ctx context.Context, req adapter.Request) {
	r.dispatched = true
	r.logger.Debug("dispatching request", zap.String("kind", adapter.RequestKind(req)))
	go func() {
		resp := r.fetcher.Handle(ctx, req)
		select {
		case r.responses <- resp:
		case <-ctx.Done():
		}
	}()
}

func (r *Runner) persistFinal(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := r.persist(ctx); err != nil {
		r.logger.Error("final snapshot not persisted", zap.Error(err))
	}
}

func (r *Runner) persist(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	r.mu.RLock()
	snapshot := r.snapshot
	r.mu.RUnlock()

	view, err := state.FromSnapshot(snapshot)
	if err != nil {
		return err
	}
	data, err := state.Encode(snapshot)
	if err != nil {
		return err
	}
	return r.store.SaveSnapshot(ctx, model.SnapshotRecord{
		Network:         r.network,
		MainChainHeight: state.MainChainHeight(view),
		StableHeight:    snapshot.NextHeight,
		Data:            data,
		CreatedAt:       r.now().UTC(),
	})
}

// setSnapshot replaces the current snapshot and drops the cached view. Must hold mu.
func (r *Runner) setSnapshot(s state.Snapshot) {
	r.snapshot = s
	r.view = nil
}

// Snapshot returns the current snapshot.
func (r *Runner) Snapshot() state.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// View returns a read-only working form of the current snapshot. Callers must not mutate it.
// The view shares the live UTXO index, which later ticks keep advancing.
func (r *Runner) View() (*state.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		view, err := state.FromSnapshot(r.snapshot)
		if err != nil {
			return nil, err
		}
		r.view = view
	}
	return r.view, nil
}

// SubmitTransaction queues raw for relay by the fetcher. It fails with *adapter.QueueFullError
// while another request is outstanding.
func (r *Runner) SubmitTransaction(raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queues, err := adapter.RestoreQueues(r.snapshot.Queues)
	if err != nil {
		return err
	}
	if qerr := queues.PushRequest(&adapter.SendTransactionRequest{Transaction: raw}); qerr != nil {
		return qerr
	}
	next := r.snapshot
	next.Queues = queues.Snapshot()
	r.setSnapshot(next)
	return nil
}
