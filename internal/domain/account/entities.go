package account

import (
	"time"
)

type Classification string

const (
	Unclassified Classification = "unclassified"
	Lender       Classification = "lender"
	Borrower     Classification = "borrower"
)

// Valid reports whether c is one of the three known classifications.
func (c Classification) Valid() bool {
	switch c {
	case Unclassified, Lender, Borrower:
		return true
	}
	return false
}

// Table: accounts. Auto-increment id is the insertion order of classification entries.
type Account struct {
	ID             uint64         `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	AccountID      string         `gorm:"column:account_id;size:32;not null;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	Classification Classification `gorm:"column:classification;size:16;not null;default:'unclassified'" json:"classification"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }
