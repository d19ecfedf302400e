package transport

type (
	heightResponse struct {
		Network         string `json:"network"`
		Height          uint32 `json:"height"`
		StableHeight    uint32 `json:"stable_height"`
		UnstableBlocks  int    `json:"unstable_blocks"`
		UTXOs           int    `json:"utxos"`
		IndexedAddrs    int    `json:"indexed_addresses"`
		PendingRequests int    `json:"pending_requests"`
	}

	balanceResponse struct {
		Address string  `json:"address"`
		Balance int64   `json:"balance"`
		BTC     float64 `json:"btc"`
	}

	utxoResponse struct {
		TxID   string `json:"txid"`
		Vout   uint32 `json:"vout"`
		Value  int64  `json:"value"`
		Height uint32 `json:"height"`
	}

	submitTransactionRequest struct {
		Hex string `json:"hex"`
	}

	submitTransactionResponse struct {
		TxID string `json:"txid"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)
