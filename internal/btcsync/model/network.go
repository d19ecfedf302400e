// Package model defines domain models shared by the block synchronization components.
package model

import (
	"fmt"
	"strings"
)

type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)

// ParseNetwork converts a case-insensitive network name into a Network.
func ParseNetwork(value string) (Network, error) {
	name := Network(strings.ToLower(strings.TrimSpace(value)))
	switch name {
	case Mainnet, Testnet, Regtest, Signet:
		return name, nil
	default:
		return "", fmt.Errorf("unknown network %q", value)
	}
}
