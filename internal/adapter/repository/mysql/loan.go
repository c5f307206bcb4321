package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "peerly-ledger/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Limits are hard ceilings on stored rows; zero means unbounded.
type Limits struct {
	MaxAccounts int
	MaxLoans    int
}

type LoanRepository struct {
	db     *gorm.DB
	limits Limits
}

func NewLoanRepository(db *gorm.DB, limits Limits) *LoanRepository {
	return &LoanRepository{db: db, limits: limits}
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	db := r.db.WithContext(ctx)
	if limit := r.limits.MaxLoans; limit > 0 {
		var n int64
		if err := db.Model(&loanDomain.Loan{}).Count(&n).Error; err != nil {
			return err
		}
		if n >= int64(limit) {
			return loanDomain.ErrCapacityExceeded
		}
	}
	return db.Create(l).Error
}

func (r *LoanRepository) Update(ctx context.Context, l *loanDomain.Loan) error {
	db := r.db.WithContext(ctx)
	res := db.
		Model(&loanDomain.Loan{}).
		Where("address = ?", l.Address).
		Updates(map[string]any{
			"lender_id":        l.LenderID,
			"status":           l.Status,
			"fund_date":        l.FundDate,
			"repay_date":       l.RepayDate,
			"interest_accrued": l.InterestAccrued,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// mysql reports changed rows, not matched rows
	var n int64
	if err := db.Model(&loanDomain.Loan{}).Where("address = ?", l.Address).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return loanDomain.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) GetByAddress(ctx context.Context, address string) (*loanDomain.Loan, error) {
	return r.first(r.db.WithContext(ctx), address)
}

// Row lock is a no-op on sqlite, which already serializes writers.
func (r *LoanRepository) GetByAddressForUpdate(ctx context.Context, address string) (*loanDomain.Loan, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), address)
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	out := []loanDomain.Loan{}
	return out, q.Order("id ASC").Find(&out).Error
}

func (r *LoanRepository) ListByAccount(ctx context.Context, accountID string) ([]loanDomain.Loan, error) {
	out := []loanDomain.Loan{}
	err := r.db.WithContext(ctx).
		Where("borrower_id = ? OR lender_id = ?", accountID, accountID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) CountActiveByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("borrower_id = ? AND status IN ?", borrowerID,
			[]loanDomain.Status{loanDomain.StatusRequested, loanDomain.StatusFunded}).
		Count(&n).Error
	return n, err
}

func (r *LoanRepository) first(q *gorm.DB, address string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := q.Where("address = ?", address).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
