// Package transport exposes the synchronized chain state over HTTP.
package transport

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const maxTransactionBody = 1 << 20

// Handler serves the query API.
type Handler struct {
	logger  *zap.Logger
	network model.Network
	params  *chaincfg.Params
	chain   Chain
	origins []string
}

// NewHandler returns a Handler over chain. An empty allowedOrigins permits any origin.
func NewHandler(logger *zap.Logger, network model.Network, chain Chain, allowedOrigins []string) (*Handler, error) {
	params, err := bitcoin.ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &Handler{
		logger:  logger.Named("http").With(zap.String("network", string(network))),
		network: network,
		params:  params,
		chain:   chain,
		origins: allowedOrigins,
	}, nil
}

// Routes returns the API mux with CORS applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/height", h.height)
	mux.HandleFunc("GET /api/v1/addresses/{address}/balance", h.balance)
	mux.HandleFunc("GET /api/v1/addresses/{address}/utxos", h.utxos)
	mux.HandleFunc("POST /api/v1/transactions", h.submitTransaction)
	return cors.New(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

func (h *Handler) height(w http.ResponseWriter, _ *http.Request) {
	view, ok := h.view(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, heightResponse{
		Network:         string(h.network),
		Height:          state.MainChainHeight(view),
		StableHeight:    view.Index.NextHeight(),
		UnstableBlocks:  len(state.UnstableBlocks(view)),
		UTXOs:           view.Index.Len(),
		IndexedAddrs:    view.Index.AddressIndexLen(),
		PendingRequests: view.Queues.NumRequests(),
	})
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	address, ok := h.address(w, r)
	if !ok {
		return
	}
	view, ok := h.view(w)
	if !ok {
		return
	}
	amount := view.Index.Balance(address)
	h.writeJSON(w, http.StatusOK, balanceResponse{
		Address: address,
		Balance: int64(amount),
		BTC:     amount.ToBTC(),
	})
}

func (h *Handler) utxos(w http.ResponseWriter, r *http.Request) {
	address, ok := h.address(w, r)
	if !ok {
		return
	}
	view, ok := h.view(w)
	if !ok {
		return
	}
	entries := view.Index.UTXOs(address)
	resp := make([]utxoResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, utxoResponse{
			TxID:   e.OutPoint.Hash.String(),
			Vout:   e.OutPoint.Index,
			Value:  e.Output.Value,
			Height: e.Output.Height,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) submitTransaction(w http.ResponseWriter, r *http.Request) {
	var req submitTransactionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTransactionBody)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	raw, err := hex.DecodeString(req.Hex)
	if err != nil || len(raw) == 0 {
		h.writeError(w, http.StatusBadRequest, "transaction must be non-empty hex")
		return
	}
	var tx wire.MsgTx
	if err = tx.Deserialize(bytes.NewReader(raw)); err != nil {
		h.writeError(w, http.StatusBadRequest, "transaction does not decode")
		return
	}

	err = h.chain.SubmitTransaction(raw)
	var full *adapter.QueueFullError
	switch {
	case errors.As(err, &full):
		w.Header().Set("Retry-After", "1")
		h.writeError(w, http.StatusServiceUnavailable, full.Error())
		return
	case err != nil:
		h.logger.Error("transaction not queued", zap.Stringer("txid", tx.TxHash()), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "transaction not queued")
		return
	}

	h.logger.Info("transaction queued", zap.Stringer("txid", tx.TxHash()))
	h.writeJSON(w, http.StatusAccepted, submitTransactionResponse{TxID: tx.TxHash().String()})
}

func (h *Handler) address(w http.ResponseWriter, r *http.Request) (string, bool) {
	addr, err := btcutil.DecodeAddress(r.PathValue("address"), h.params)
	if err != nil || !addr.IsForNet(h.params) {
		h.writeError(w, http.StatusBadRequest, "invalid address for "+string(h.network))
		return "", false
	}
	return addr.EncodeAddress(), true
}

func (h *Handler) view(w http.ResponseWriter) (*state.State, bool) {
	view, err := h.chain.View()
	if err != nil {
		h.logger.Error("state view unavailable", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "state unavailable")
		return nil, false
	}
	return view, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("response not written", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
