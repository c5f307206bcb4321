package loanmock

import (
	"context"

	domain "peerly-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset reads report domain.ErrNotFound; unset writes succeed.
type Repo struct {
	CreateFn                func(ctx context.Context, l *domain.Loan) error
	UpdateFn                func(ctx context.Context, l *domain.Loan) error
	GetByAddressFn          func(ctx context.Context, address string) (*domain.Loan, error)
	GetByAddressForUpdateFn func(ctx context.Context, address string) (*domain.Loan, error)
	ListFn                  func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error)
	ListByAccountFn         func(ctx context.Context, accountID string) ([]domain.Loan, error)
	CountActiveByBorrowerFn func(ctx context.Context, borrowerID string) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Update(ctx context.Context, l *domain.Loan) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByAddress(ctx context.Context, address string) (*domain.Loan, error) {
	if m.GetByAddressFn != nil {
		return m.GetByAddressFn(ctx, address)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByAddressForUpdate(ctx context.Context, address string) (*domain.Loan, error) {
	if m.GetByAddressForUpdateFn != nil {
		return m.GetByAddressForUpdateFn(ctx, address)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return []domain.Loan{}, nil
}

func (m *Repo) ListByAccount(ctx context.Context, accountID string) ([]domain.Loan, error) {
	if m.ListByAccountFn != nil {
		return m.ListByAccountFn(ctx, accountID)
	}
	return []domain.Loan{}, nil
}

func (m *Repo) CountActiveByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	if m.CountActiveByBorrowerFn != nil {
		return m.CountActiveByBorrowerFn(ctx, borrowerID)
	}
	return 0, nil
}
