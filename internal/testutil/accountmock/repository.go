package accountmock

import (
	"context"

	"peerly-ledger/internal/domain/account"
)

var _ account.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies account.Repository.
type Repo struct {
	GetClassificationFn func(ctx context.Context, accountID string) (account.Classification, error)
	SetClassificationFn func(ctx context.Context, accountID string, c account.Classification) error
}

func (m *Repo) GetClassification(ctx context.Context, accountID string) (account.Classification, error) {
	if m.GetClassificationFn != nil {
		return m.GetClassificationFn(ctx, accountID)
	}
	return account.Unclassified, nil
}

func (m *Repo) SetClassification(ctx context.Context, accountID string, c account.Classification) error {
	if m.SetClassificationFn != nil {
		return m.SetClassificationFn(ctx, accountID, c)
	}
	return nil
}
