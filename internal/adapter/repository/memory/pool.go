// Package memory is the bounded in-process ledger store: one pool holding every
// classification entry and every loan, indexed by identifier, iterated in insertion order.
package memory

import (
	"context"
	"sync"
	"time"

	"peerly-ledger/internal/domain/account"
	"peerly-ledger/internal/domain/loan"
	"peerly-ledger/internal/domain/uow"
)

// Limits are hard ceilings on the pool; zero means unbounded.
type Limits struct {
	MaxAccounts int
	MaxLoans    int
}

type state struct {
	accounts   []account.Account
	accountIdx map[string]int
	loans      []loan.Loan
	loanIdx    map[string]int
	accountSeq uint64
	loanSeq    uint64
}

func newState() *state {
	return &state{accountIdx: map[string]int{}, loanIdx: map[string]int{}}
}

func (s *state) clone() *state {
	out := &state{
		accounts:   make([]account.Account, len(s.accounts)),
		accountIdx: make(map[string]int, len(s.accountIdx)),
		loans:      make([]loan.Loan, len(s.loans)),
		loanIdx:    make(map[string]int, len(s.loanIdx)),
		accountSeq: s.accountSeq,
		loanSeq:    s.loanSeq,
	}
	copy(out.accounts, s.accounts)
	for k, v := range s.accountIdx {
		out.accountIdx[k] = v
	}
	for i := range s.loans {
		out.loans[i] = s.loans[i].Clone()
	}
	for k, v := range s.loanIdx {
		out.loanIdx[k] = v
	}
	return out
}

// Pool serializes all writers behind one mutex. A unit of work mutates a private
// snapshot which replaces the live state only when the unit succeeds.
type Pool struct {
	mu     sync.Mutex
	st     *state
	limits Limits
}

var _ uow.UnitOfWork = (*Pool)(nil)

func NewPool(limits Limits) *Pool { return &Pool{st: newState(), limits: limits} }

// Loans and Accounts are auto-committing views over the live state.
// They must not be used from inside a WithinTx callback.
func (p *Pool) Loans() loan.Repository       { return &loanRepo{p: p} }
func (p *Pool) Accounts() account.Repository { return &accountRepo{p: p} }

func (p *Pool) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	work := p.st.clone()
	r := uow.Repos{
		Loans:    &loanRepo{p: p, tx: work},
		Accounts: &accountRepo{p: p, tx: work},
	}
	if err := fn(r); err != nil {
		return err
	}
	p.st = work
	return nil
}

func (p *Pool) WithinLoanTx(ctx context.Context, address string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return p.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByAddressForUpdate(ctx, address)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

// Len reports the number of classification entries and loans currently stored.
func (p *Pool) Len() (accounts, loans int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.st.accounts), len(p.st.loans)
}

func nowUTC() time.Time { return time.Now().UTC() }
