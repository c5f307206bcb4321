package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountDomain "peerly-ledger/internal/domain/account"
	loanDomain "peerly-ledger/internal/domain/loan"

	"gorm.io/gorm"
)

type AccountRepository struct {
	db     *gorm.DB
	limits Limits
}

func NewAccountRepository(db *gorm.DB, limits Limits) *AccountRepository {
	return &AccountRepository{db: db, limits: limits}
}

// Accounts without a row are unclassified.
func (r *AccountRepository) GetClassification(ctx context.Context, accountID string) (accountDomain.Classification, error) {
	var out accountDomain.Account
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return accountDomain.Unclassified, nil
	}
	if err != nil {
		return "", err
	}
	return out.Classification, nil
}

func (r *AccountRepository) SetClassification(ctx context.Context, accountID string, c accountDomain.Classification) error {
	if !c.Valid() {
		return fmt.Errorf("mysql: invalid classification %q", c)
	}
	db := r.db.WithContext(ctx)

	var existing accountDomain.Account
	err := db.Where("account_id = ?", accountID).First(&existing).Error
	switch {
	case err == nil:
		return db.Model(&existing).Updates(map[string]any{"classification": c, "updated_at": time.Now().UTC()}).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if limit := r.limits.MaxAccounts; limit > 0 {
		var n int64
		if err := db.Model(&accountDomain.Account{}).Count(&n).Error; err != nil {
			return err
		}
		if n >= int64(limit) {
			return loanDomain.ErrCapacityExceeded
		}
	}
	return db.Create(&accountDomain.Account{AccountID: accountID, Classification: c}).Error
}
