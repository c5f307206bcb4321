package memory

import (
	"context"
	"errors"

	"peerly-ledger/internal/domain/loan"
)

var errDuplicateAddress = errors.New("memory: duplicate loan address")

type loanRepo struct {
	p  *Pool
	tx *state
}

func (r *loanRepo) with(fn func(s *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	return fn(r.p.st)
}

func (r *loanRepo) Create(ctx context.Context, l *loan.Loan) error {
	return r.with(func(s *state) error {
		if _, ok := s.loanIdx[l.Address]; ok {
			return errDuplicateAddress
		}
		if limit := r.p.limits.MaxLoans; limit > 0 && len(s.loans) >= limit {
			return loan.ErrCapacityExceeded
		}
		s.loanSeq++
		now := nowUTC()
		l.ID = s.loanSeq
		l.CreatedAt, l.UpdatedAt = now, now
		s.loanIdx[l.Address] = len(s.loans)
		s.loans = append(s.loans, l.Clone())
		return nil
	})
}

func (r *loanRepo) Update(ctx context.Context, l *loan.Loan) error {
	return r.with(func(s *state) error {
		i, ok := s.loanIdx[l.Address]
		if !ok {
			return loan.ErrNotFound
		}
		stored := l.Clone()
		stored.ID = s.loans[i].ID
		stored.CreatedAt = s.loans[i].CreatedAt
		stored.UpdatedAt = nowUTC()
		s.loans[i] = stored
		l.ID, l.UpdatedAt = stored.ID, stored.UpdatedAt
		return nil
	})
}

func (r *loanRepo) GetByAddress(ctx context.Context, address string) (*loan.Loan, error) {
	var out loan.Loan
	err := r.with(func(s *state) error {
		i, ok := s.loanIdx[address]
		if !ok {
			return loan.ErrNotFound
		}
		out = s.loans[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// The pool already holds its writer lock for the whole unit of work.
func (r *loanRepo) GetByAddressForUpdate(ctx context.Context, address string) (*loan.Loan, error) {
	return r.GetByAddress(ctx, address)
}

func (r *loanRepo) List(ctx context.Context, f loan.ListFilter) ([]loan.Loan, error) {
	return r.collect(func(l *loan.Loan) bool { return f.Status == "" || l.Status == f.Status })
}

func (r *loanRepo) ListByAccount(ctx context.Context, accountID string) ([]loan.Loan, error) {
	return r.collect(func(l *loan.Loan) bool { return l.Involves(accountID) })
}

func (r *loanRepo) CountActiveByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	var n int64
	err := r.with(func(s *state) error {
		for i := range s.loans {
			if s.loans[i].BorrowerID == borrowerID && s.loans[i].Status.Active() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *loanRepo) collect(keep func(l *loan.Loan) bool) ([]loan.Loan, error) {
	out := []loan.Loan{}
	err := r.with(func(s *state) error {
		for i := range s.loans {
			if keep(&s.loans[i]) {
				out = append(out, s.loans[i].Clone())
			}
		}
		return nil
	})
	return out, err
}
