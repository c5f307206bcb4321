package memory

import (
	"context"
	"fmt"

	"peerly-ledger/internal/domain/account"
	"peerly-ledger/internal/domain/loan"
)

type accountRepo struct {
	p  *Pool
	tx *state
}

func (r *accountRepo) with(fn func(s *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	return fn(r.p.st)
}

func (r *accountRepo) GetClassification(ctx context.Context, accountID string) (account.Classification, error) {
	c := account.Unclassified
	err := r.with(func(s *state) error {
		if i, ok := s.accountIdx[accountID]; ok {
			c = s.accounts[i].Classification
		}
		return nil
	})
	return c, err
}

func (r *accountRepo) SetClassification(ctx context.Context, accountID string, c account.Classification) error {
	if !c.Valid() {
		return fmt.Errorf("memory: invalid classification %q", c)
	}
	return r.with(func(s *state) error {
		now := nowUTC()
		if i, ok := s.accountIdx[accountID]; ok {
			s.accounts[i].Classification = c
			s.accounts[i].UpdatedAt = now
			return nil
		}
		if limit := r.p.limits.MaxAccounts; limit > 0 && len(s.accounts) >= limit {
			return loan.ErrCapacityExceeded
		}
		s.accountSeq++
		s.accountIdx[accountID] = len(s.accounts)
		s.accounts = append(s.accounts, account.Account{
			ID:             s.accountSeq,
			AccountID:      accountID,
			Classification: c,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		return nil
	})
}
