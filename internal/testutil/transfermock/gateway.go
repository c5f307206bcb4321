package transfermock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"peerly-ledger/internal/domain/transfer"
)

var _ transfer.Gateway = (*Gateway)(nil)

type Call struct {
	From   string
	To     string
	Amount uint64
}

// Gateway records every Transfer call. TransferFn, when set, decides the outcome;
// otherwise every transfer succeeds.
type Gateway struct {
	mu         sync.Mutex
	calls      []Call
	TransferFn func(ctx context.Context, from, to string, amount uint64) error
}

func (g *Gateway) Transfer(ctx context.Context, from, to string, amount uint64) (*transfer.Receipt, error) {
	g.mu.Lock()
	g.calls = append(g.calls, Call{From: from, To: to, Amount: amount})
	n := len(g.calls)
	fn := g.TransferFn
	g.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, from, to, amount); err != nil {
			return nil, err
		}
	}
	return &transfer.Receipt{
		ID:     fmt.Sprintf("mock-%d", n),
		From:   from,
		To:     to,
		Amount: amount,
		At:     time.Now().UTC(),
	}, nil
}

func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}
