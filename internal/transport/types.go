package transport

import (
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/state"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Chain is the runner side the handler reads from and submits to.
	Chain interface {
		View() (*state.State, error)
		SubmitTransaction(raw []byte) error
	}
)
