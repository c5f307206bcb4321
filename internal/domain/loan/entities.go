package loan

import (
	"time"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusFunded    Status = "funded"
	StatusClosed    Status = "closed"
	// Reserved terminal state: nothing transitions into it yet.
	StatusDefaulted Status = "defaulted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusFunded, StatusClosed, StatusDefaulted:
		return true
	}
	return false
}

// Active loans count against a borrower's open-loan cap.
func (s Status) Active() bool { return s == StatusRequested || s == StatusFunded }

// MaxMortgageCIDLen bounds the opaque collateral reference, in bytes.
const MaxMortgageCIDLen = 200

// Table: loans. Auto-increment id is storage order; Address is the public identity.
type Loan struct {
	ID              uint64     `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	Address         string     `gorm:"column:address;size:32;not null;uniqueIndex:ux_loans_address" json:"address"`
	BorrowerID      string     `gorm:"column:borrower_id;size:32;not null;index:idx_loans_borrower" json:"borrower_id"`
	LenderID        string     `gorm:"column:lender_id;size:32;not null;index:idx_loans_lender" json:"lender_id"`
	Amount          uint64     `gorm:"column:amount;not null" json:"amount"`
	MortgageCID     string     `gorm:"column:mortgage_cid;size:200" json:"mortgage_cid"`
	DueDate         time.Time  `gorm:"column:due_date;not null" json:"due_date"`
	Status          Status     `gorm:"column:status;size:16;not null;default:'requested';index:idx_loans_status" json:"status"`
	RequestDate     time.Time  `gorm:"column:request_date;not null" json:"request_date"`
	FundDate        *time.Time `gorm:"column:fund_date" json:"fund_date,omitempty"`
	RepayDate       *time.Time `gorm:"column:repay_date" json:"repay_date,omitempty"`
	InterestAccrued *uint64    `gorm:"column:interest_accrued" json:"interest_accrued,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Clone returns a deep copy; optional fields do not alias the original.
func (l *Loan) Clone() Loan {
	out := *l
	if l.FundDate != nil {
		t := *l.FundDate
		out.FundDate = &t
	}
	if l.RepayDate != nil {
		t := *l.RepayDate
		out.RepayDate = &t
	}
	if l.InterestAccrued != nil {
		v := *l.InterestAccrued
		out.InterestAccrued = &v
	}
	return out
}

// Involves reports whether accountID is the borrower or the lender of l.
func (l *Loan) Involves(accountID string) bool {
	return l.BorrowerID == accountID || l.LenderID == accountID
}
