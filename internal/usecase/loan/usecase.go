package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "peerly-ledger/internal/domain/loan"
	"peerly-ledger/internal/domain/transfer"
	"peerly-ledger/internal/domain/uow"
	"peerly-ledger/internal/infrastructure/metrics"
	"peerly-ledger/internal/logger"
	"peerly-ledger/pkg/clock"
	"peerly-ledger/pkg/id"
)

const (
	opRequest = "request"
	opFund    = "fund"
	opRepay   = "repay"
)

type Config struct {
	// Requested + Funded loans one borrower may hold; 0 disables the cap
	MaxActivePerBorrower int
	Metrics              *metrics.LedgerMetrics
}

type Usecase struct {
	uow     uow.UnitOfWork
	gateway transfer.Gateway
	clock   clock.Clock
	cfg     Config
	log     *slog.Logger
}

func NewUsecase(tx uow.UnitOfWork, gw transfer.Gateway, clk clock.Clock, cfg Config) *Usecase {
	if clk == nil {
		clk = clock.System()
	}
	return &Usecase{uow: tx, gateway: gw, clock: clk, cfg: cfg, log: logger.WithComponent("loan")}
}

func (u *Usecase) RequestLoan(ctx context.Context, in RequestLoanInput) (dto *LoanDTO, err error) {
	defer u.observe(opRequest, time.Now(), &err)

	now := u.clock.Now()
	switch {
	case !id.IsParticipant(in.BorrowerID):
		return nil, domain.ErrInvalidCaller
	case in.Amount == 0:
		return nil, domain.ErrInvalidAmount
	case !in.DueDate.After(now):
		return nil, domain.ErrInvalidDueDate
	case len(in.MortgageCID) > domain.MaxMortgageCIDLen:
		return nil, domain.ErrInvalidCollateral
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Accounts.GetClassification(ctx, in.BorrowerID)
		if err != nil {
			return err
		}
		if !c.CanBorrow() {
			return domain.ErrLenderCannotBorrow
		}

		if limit := u.cfg.MaxActivePerBorrower; limit > 0 {
			n, err := r.Loans.CountActiveByBorrower(ctx, in.BorrowerID)
			if err != nil {
				return err
			}
			if n >= int64(limit) {
				return domain.ErrMaxLoansReached
			}
		}

		l := &domain.Loan{
			Address:     id.NewID32(),
			BorrowerID:  in.BorrowerID,
			LenderID:    id.Sentinel,
			Amount:      in.Amount,
			MortgageCID: in.MortgageCID,
			DueDate:     in.DueDate.UTC(),
			Status:      domain.StatusRequested,
			RequestDate: now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if next := c.AfterBorrow(); next != c {
			if err := r.Accounts.SetClassification(ctx, in.BorrowerID, next); err != nil {
				return err
			}
		}

		d := ToDTO(l)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "loan requested", "address", dto.Address, "borrower", dto.BorrowerID, "amount", dto.Amount)
	return dto, nil
}

func (u *Usecase) FundLoan(ctx context.Context, in FundLoanInput) (res *FundResult, err error) {
	defer u.observe(opFund, time.Now(), &err)

	if !id.IsParticipant(in.LenderID) {
		return nil, domain.ErrInvalidCaller
	}

	var receipt *transfer.Receipt
	var borrower string
	var amount uint64
	err = u.uow.WithinLoanTx(ctx, in.Address, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusRequested {
			return domain.ErrLoanNotFundable
		}
		c, err := r.Accounts.GetClassification(ctx, in.LenderID)
		if err != nil {
			return err
		}
		if !c.CanLend() || in.LenderID == l.BorrowerID {
			return domain.ErrBorrowerCannotLend
		}

		now := u.clock.Now()
		l.LenderID = in.LenderID
		l.Status = domain.StatusFunded
		l.FundDate = &now
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		if next := c.AfterLend(); next != c {
			if err := r.Accounts.SetClassification(ctx, in.LenderID, next); err != nil {
				return err
			}
		}

		// funds move last
		borrower, amount = l.BorrowerID, l.Amount
		receipt, err = u.gateway.Transfer(ctx, in.LenderID, l.BorrowerID, l.Amount)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
		}

		res = &FundResult{Loan: ToDTO(l), Receipt: receipt}
		return nil
	})
	if err != nil {
		if receipt != nil {
			u.compensate(ctx, borrower, in.LenderID, amount, in.Address, err)
		}
		return nil, err
	}

	u.cfg.Metrics.ObserveVolume(opFund, amount)
	u.log.InfoContext(ctx, "loan funded", "address", in.Address, "lender", in.LenderID, "amount", amount, "receipt", receipt.ID)
	return res, nil
}

func (u *Usecase) RepayLoan(ctx context.Context, in RepayLoanInput) (res *RepayResult, err error) {
	defer u.observe(opRepay, time.Now(), &err)

	if !id.IsParticipant(in.BorrowerID) {
		return nil, domain.ErrInvalidCaller
	}

	var receipt *transfer.Receipt
	var lender string
	var total uint64
	err = u.uow.WithinLoanTx(ctx, in.Address, func(r uow.Repos, l *domain.Loan) error {
		// authorization precedes the state check
		if in.BorrowerID != l.BorrowerID {
			return domain.ErrUnauthorizedBorrower
		}
		if l.Status != domain.StatusFunded || l.FundDate == nil {
			return domain.ErrLoanNotRepayable
		}

		now := u.clock.Now()
		rep, err := domain.ComputeRepayment(l.Amount, *l.FundDate, now)
		if err != nil {
			return err
		}

		interest := rep.Interest
		l.Status = domain.StatusClosed
		l.RepayDate = &now
		l.InterestAccrued = &interest
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}

		lender, total = l.LenderID, rep.Total
		receipt, err = u.gateway.Transfer(ctx, l.BorrowerID, l.LenderID, rep.Total)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
		}

		res = &RepayResult{Loan: ToDTO(l), Repayment: rep, Receipt: receipt}
		return nil
	})
	if err != nil {
		if receipt != nil {
			u.compensate(ctx, lender, in.BorrowerID, total, in.Address, err)
		}
		return nil, err
	}

	u.cfg.Metrics.ObserveVolume(opRepay, total)
	u.log.InfoContext(ctx, "loan repaid", "address", in.Address, "borrower", in.BorrowerID,
		"interest", res.Repayment.Interest, "total", total, "receipt", receipt.ID)
	return res, nil
}

// Quote prices repaying a funded loan at the given instant; a zero at means now.
func (u *Usecase) Quote(ctx context.Context, address string, at time.Time) (*QuoteDTO, error) {
	if at.IsZero() {
		at = u.clock.Now()
	}
	var out *QuoteDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByAddress(ctx, address)
		if err != nil {
			return err
		}
		if l.Status != domain.StatusFunded || l.FundDate == nil {
			return domain.ErrLoanNotRepayable
		}
		rep, err := domain.ComputeRepayment(l.Amount, *l.FundDate, at)
		if err != nil {
			return err
		}
		out = &QuoteDTO{Address: l.Address, Amount: l.Amount, At: at.UTC(), Repayment: rep}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// compensate returns funds moved by a unit of work that then failed to commit.
func (u *Usecase) compensate(ctx context.Context, from, to string, amount uint64, address string, cause error) {
	u.cfg.Metrics.ObserveCompensation()
	ctx = context.WithoutCancel(ctx)
	if _, err := u.gateway.Transfer(ctx, from, to, amount); err != nil {
		u.log.ErrorContext(ctx, "compensating transfer failed",
			"address", address, "from", from, "to", to, "amount", amount, "cause", cause, "error", err)
		return
	}
	u.log.WarnContext(ctx, "unit of work failed after transfer, funds returned",
		"address", address, "from", from, "to", to, "amount", amount, "cause", cause)
}

func (u *Usecase) observe(op string, started time.Time, err *error) {
	u.cfg.Metrics.ObserveDuration(op, started)
	if *err != nil {
		u.cfg.Metrics.ObserveRejection(op, domain.KindOf(*err).String())
		return
	}
	u.cfg.Metrics.ObserveTransition(op)
}
