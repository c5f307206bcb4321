package transfer

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInsufficientFunds = errors.New("transfer: insufficient funds")
	ErrInvalidTransfer   = errors.New("transfer: invalid transfer")
)

// Receipt identifies one completed movement of funds.
type Receipt struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Amount uint64    `json:"amount"`
	At     time.Time `json:"at"`
}

// Gateway moves an exact amount of native currency between two identifiers.
// A call either moves the whole amount and returns a receipt, or fails and moves nothing.
type Gateway interface {
	Transfer(ctx context.Context, from, to string, amount uint64) (*Receipt, error)
}

// Validate rejects transfers no gateway should attempt.
func Validate(from, to string, amount uint64) error {
	if amount == 0 || from == "" || to == "" || from == to {
		return ErrInvalidTransfer
	}
	return nil
}
