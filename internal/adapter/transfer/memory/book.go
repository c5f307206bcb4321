// Package memory is an in-process balance book implementing transfer.Gateway.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"peerly-ledger/internal/domain/transfer"

	"github.com/google/uuid"
)

// Book keeps native-currency balances per identifier.
type Book struct {
	mu       sync.Mutex
	balances map[string]uint64
	receipts []transfer.Receipt
	now      func() time.Time
}

var _ transfer.Gateway = (*Book)(nil)

func NewBook() *Book {
	return &Book{
		balances: map[string]uint64{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Credit mints amount into id. Used for seeding and tests.
func (b *Book) Credit(id string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur := b.balances[id]
	if cur > math.MaxUint64-amount {
		return fmt.Errorf("memory book: credit overflows balance of %s", id)
	}
	b.balances[id] = cur + amount
	return nil
}

func (b *Book) Balance(id string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[id]
}

// Receipts returns every completed transfer, oldest first.
func (b *Book) Receipts() []transfer.Receipt {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]transfer.Receipt, len(b.receipts))
	copy(out, b.receipts)
	return out
}

func (b *Book) Transfer(ctx context.Context, from, to string, amount uint64) (*transfer.Receipt, error) {
	if err := transfer.Validate(from, to, amount); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[from] < amount {
		return nil, fmt.Errorf("%w: %s has %d, needs %d", transfer.ErrInsufficientFunds, from, b.balances[from], amount)
	}
	if b.balances[to] > math.MaxUint64-amount {
		return nil, fmt.Errorf("%w: credit overflows balance of %s", transfer.ErrInvalidTransfer, to)
	}
	b.balances[from] -= amount
	b.balances[to] += amount

	r := transfer.Receipt{ID: uuid.NewString(), From: from, To: to, Amount: amount, At: b.now()}
	b.receipts = append(b.receipts, r)
	slog.DebugContext(ctx, "memory book transfer", "receipt", r.ID, "from", from, "to", to, "amount", amount)
	return &r, nil
}
