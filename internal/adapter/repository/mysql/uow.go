package mysql

import (
	"context"
	"errors"

	"peerly-ledger/internal/domain/account"
	"peerly-ledger/internal/domain/loan"
	"peerly-ledger/internal/domain/uow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ledgerLock is a one-row table. Every unit of work locks that row first, so units
// run one at a time and capacity counts cannot race with inserts.
type ledgerLock struct {
	ID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (ledgerLock) TableName() string { return "ledger_locks" }

const ledgerLockID = 1

var ErrLedgerNotMigrated = errors.New("mysql: ledger lock row missing, run Migrate")

type GormUoW struct {
	db     *gorm.DB
	limits Limits
}

func NewGormUoW(db *gorm.DB, limits Limits) *GormUoW { return &GormUoW{db: db, limits: limits} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:    &LoanRepository{db: tx, limits: u.limits},
		Accounts: &AccountRepository{db: tx, limits: u.limits},
	}
}

func lockLedger(tx *gorm.DB) error {
	var l ledgerLock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&l, ledgerLockID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLedgerNotMigrated
	}
	return err
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLedger(tx); err != nil {
			return err
		}
		return fn(u.repos(tx))
	})
}

// WithinLoanTx takes the ledger lock, then the loan row.
func (u *GormUoW) WithinLoanTx(ctx context.Context, address string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLedger(tx); err != nil {
			return err
		}
		r := u.repos(tx)
		l, err := r.Loans.GetByAddressForUpdate(ctx, address)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

// Migrate creates the accounts, loans and ledger_locks tables and seeds the lock row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&loan.Loan{}, &account.Account{}, &ledgerLock{}); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ledgerLock{ID: ledgerLockID}).Error
}
