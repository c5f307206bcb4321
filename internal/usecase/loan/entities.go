package loan

import (
	"time"

	domain "peerly-ledger/internal/domain/loan"
	"peerly-ledger/internal/domain/transfer"
)

type RequestLoanInput struct {
	BorrowerID  string
	Amount      uint64
	MortgageCID string
	DueDate     time.Time
}

type FundLoanInput struct {
	LenderID string
	Address  string
}

type RepayLoanInput struct {
	BorrowerID string
	Address    string
}

type LoanDTO struct {
	Address         string     `json:"address"`
	BorrowerID      string     `json:"borrower_id"`
	LenderID        string     `json:"lender_id"`
	Amount          uint64     `json:"amount"`
	MortgageCID     string     `json:"mortgage_cid"`
	DueDate         time.Time  `json:"due_date"`
	Status          string     `json:"status"`
	RequestDate     time.Time  `json:"request_date"`
	FundDate        *time.Time `json:"fund_date,omitempty"`
	RepayDate       *time.Time `json:"repay_date,omitempty"`
	InterestAccrued *uint64    `json:"interest_accrued,omitempty"`
}

func ToDTO(l *domain.Loan) LoanDTO {
	c := l.Clone()
	return LoanDTO{
		Address:         c.Address,
		BorrowerID:      c.BorrowerID,
		LenderID:        c.LenderID,
		Amount:          c.Amount,
		MortgageCID:     c.MortgageCID,
		DueDate:         c.DueDate,
		Status:          string(c.Status),
		RequestDate:     c.RequestDate,
		FundDate:        c.FundDate,
		RepayDate:       c.RepayDate,
		InterestAccrued: c.InterestAccrued,
	}
}

func ToDTOs(ls []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, ToDTO(&ls[i]))
	}
	return out
}

type FundResult struct {
	Loan    LoanDTO           `json:"loan"`
	Receipt *transfer.Receipt `json:"receipt"`
}

type RepayResult struct {
	Loan      LoanDTO           `json:"loan"`
	Repayment domain.Repayment  `json:"repayment"`
	Receipt   *transfer.Receipt `json:"receipt"`
}

type QuoteDTO struct {
	Address   string           `json:"address"`
	Amount    uint64           `json:"amount"`
	At        time.Time        `json:"at"`
	Repayment domain.Repayment `json:"repayment"`
}
