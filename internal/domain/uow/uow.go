package uow

import (
	"context"

	"peerly-ledger/internal/domain/account"
	"peerly-ledger/internal/domain/loan"
)

// Repos is the ledger store as seen from inside one unit of work.
type Repos struct {
	Loans    loan.Repository
	Accounts account.Repository
}

// UnitOfWork runs fn as one all-or-nothing mutation of the ledger store.
// Returning an error from fn discards every write fn made.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, address string, fn func(r Repos, l *loan.Loan) error) error
}
