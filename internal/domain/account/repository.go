package account

import "context"

type Repository interface {
	// Unclassified when no entry exists
	GetClassification(ctx context.Context, accountID string) (Classification, error)

	// Overwrite an existing entry or append a new one (capacity checked by the store)
	SetClassification(ctx context.Context, accountID string, c Classification) error
}
