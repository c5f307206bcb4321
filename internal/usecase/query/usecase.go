package query

import (
	"context"

	"peerly-ledger/internal/domain/account"
	domain "peerly-ledger/internal/domain/loan"
	"peerly-ledger/internal/domain/uow"
	loanuc "peerly-ledger/internal/usecase/loan"
	"peerly-ledger/pkg/id"
)

type AccountDetailsDTO struct {
	AccountID      string           `json:"account_id"`
	Classification string           `json:"classification"`
	Loans          []loanuc.LoanDTO `json:"loans"`
}

// Usecase serves read-only views; each read runs in one unit of work so it sees one snapshot.
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// GetAllLoans returns every loan in storage order; an empty status means all.
func (u *Usecase) GetAllLoans(ctx context.Context, status domain.Status) ([]loanuc.LoanDTO, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	var out []loanuc.LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ls, err := r.Loans.List(ctx, domain.ListFilter{Status: status})
		if err != nil {
			return err
		}
		out = loanuc.ToDTOs(ls)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) GetLoan(ctx context.Context, address string) (*loanuc.LoanDTO, error) {
	var out *loanuc.LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByAddress(ctx, address)
		if err != nil {
			return err
		}
		d := loanuc.ToDTO(l)
		out = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccountDetails never reports an unknown account as missing: it is unclassified with no loans.
// The sentinel and malformed ids get that same empty view; the sentinel is every unfunded
// loan's lender, not an account.
func (u *Usecase) GetAccountDetails(ctx context.Context, accountID string) (*AccountDetailsDTO, error) {
	out := &AccountDetailsDTO{
		AccountID:      accountID,
		Classification: string(account.Unclassified),
		Loans:          []loanuc.LoanDTO{},
	}
	if !id.IsParticipant(accountID) {
		return out, nil
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Accounts.GetClassification(ctx, accountID)
		if err != nil {
			return err
		}
		ls, err := r.Loans.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		out.Classification = string(c)
		out.Loans = loanuc.ToDTOs(ls)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
