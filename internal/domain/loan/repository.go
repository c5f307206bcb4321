package loan

import "context"

type ListFilter struct {
	// Empty means every status
	Status Status
}

type Repository interface {
	// Append a new loan; ErrCapacityExceeded when the ledger is full
	Create(ctx context.Context, l *Loan) error
	// Replace the stored record with the same Address; ErrNotFound when none matches
	Update(ctx context.Context, l *Loan) error

	GetByAddress(ctx context.Context, address string) (*Loan, error)
	// Same as GetByAddress but locks the record for the rest of the unit of work
	GetByAddressForUpdate(ctx context.Context, address string) (*Loan, error)

	// Storage order
	List(ctx context.Context, f ListFilter) ([]Loan, error)
	ListByAccount(ctx context.Context, accountID string) ([]Loan, error)
	CountActiveByBorrower(ctx context.Context, borrowerID string) (int64, error)
}
