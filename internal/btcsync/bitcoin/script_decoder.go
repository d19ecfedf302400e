package bitcoin

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
)

// ScriptDecoder extracts human-readable addresses from output scripts.
type ScriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder initializes a decoder using params of the provided network.
func NewScriptDecoder(network model.Network) (*ScriptDecoder, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &ScriptDecoder{params: params}, nil
}

// Params returns the chain parameters the decoder encodes addresses for.
func (d *ScriptDecoder) Params() *chaincfg.Params {
	return d.params
}

// Addresses returns the encoded addresses paying to pkScript. Non-standard scripts yield none.
func (d *ScriptDecoder) Addresses(pkScript []byte) []string {
	if len(pkScript) == 0 {
		return nil
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, d.params)
	if err != nil {
		return nil
	}

	result := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		result = append(result, addr.EncodeAddress())
	}
	return result
}
