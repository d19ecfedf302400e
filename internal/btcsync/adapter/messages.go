// Package adapter defines the messages exchanged with the external block fetcher and the
// bounded queue that carries them.
package adapter

// Block is the fetcher's wire representation of a bitcoin block. Hashes are raw bytes in
// internal byte order.
type Block struct {
	Header BlockHeader
	Txdata []Transaction
}

// BlockHeader is the wire header of a Block.
type BlockHeader struct {
	Version       int32
	PrevBlockHash []byte
	MerkleRoot    []byte
	Time          uint32
	Bits          uint32
	Nonce         uint32
}

// Transaction is the wire representation of a bitcoin transaction.
type Transaction struct {
	Version  int32
	LockTime uint32
	Input    []TxIn
	Output   []TxOut
}

// TxIn is a wire transaction input.
type TxIn struct {
	PreviousOutput OutPoint
	ScriptSig      []byte
	Sequence       uint32
	Witness        [][]byte
}

// OutPoint references an output of a previous transaction.
type OutPoint struct {
	TxID []byte
	Vout uint32
}

// TxOut is a wire transaction output.
type TxOut struct {
	Value        uint64
	ScriptPubKey []byte
}

type (
	// Request is sent to the fetcher. Implementations: *GetSuccessorsRequest, *SendTransactionRequest.
	Request interface {
		isRequest()
	}

	// Response is delivered by the fetcher. Implementations: *GetSuccessorsResponse, *SendTransactionResponse.
	Response interface {
		isResponse()
	}
)

// GetSuccessorsRequest asks the fetcher for blocks following Anchor that are not listed in
// ProcessedBlockHashes.
type GetSuccessorsRequest struct {
	Anchor               []byte
	ProcessedBlockHashes [][]byte
}

// GetSuccessorsResponse carries new blocks in delivery order. Next lists header hashes the
// fetcher expects to serve afterwards; it is advisory only.
type GetSuccessorsResponse struct {
	Blocks []Block
	Next   [][]byte
}

// SendTransactionRequest asks the fetcher to relay a serialized transaction.
type SendTransactionRequest struct {
	Transaction []byte
}

// SendTransactionResponse acknowledges a SendTransactionRequest.
type SendTransactionResponse struct{}

func (*GetSuccessorsRequest) isRequest()   {}
func (*SendTransactionRequest) isRequest() {}

func (*GetSuccessorsResponse) isResponse()   {}
func (*SendTransactionResponse) isResponse() {}

// RequestKind names the variant of r for logs and metric labels.
func RequestKind(r Request) string {
	switch r.(type) {
	case *GetSuccessorsRequest:
		return "get_successors"
	case *SendTransactionRequest:
		return "send_transaction"
	default:
		return "unknown"
	}
}

// ResponseKind names the variant of r for logs and metric labels.
func ResponseKind(r Response) string {
	switch r.(type) {
	case *GetSuccessorsResponse:
		return "get_successors"
	case *SendTransactionResponse:
		return "send_transaction"
	default:
		return "unknown"
	}
}
