package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "peerly-ledger/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{Address: "LN-1"}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByAddressForUpdate(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{Address: "LN-2"}

	m := &Repo{
		GetByAddressForUpdateFn: func(_ context.Context, address string) (*domain.Loan, error) {
			if address != "LN-2" {
				t.Fatalf("address mismatch: got %s", address)
			}
			return want, nil
		},
	}
	got, err := m.GetByAddressForUpdate(ctx, "LN-2")
	if err != nil || got != want {
		t.Fatalf("GetByAddressForUpdate: got %v, %v", got, err)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if _, err := m.GetByAddress(ctx, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByAddress default: want ErrNotFound, got %v", err)
	}
	if _, err := m.GetByAddressForUpdate(ctx, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByAddressForUpdate default: want ErrNotFound, got %v", err)
	}
	if err := m.Update(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Update default: %v", err)
	}
	if ls, err := m.List(ctx, domain.ListFilter{}); err != nil || ls == nil || len(ls) != 0 {
		t.Fatalf("List default: %v %v", ls, err)
	}
	if ls, err := m.ListByAccount(ctx, "x"); err != nil || len(ls) != 0 {
		t.Fatalf("ListByAccount default: %v %v", ls, err)
	}
	if n, err := m.CountActiveByBorrower(ctx, "x"); err != nil || n != 0 {
		t.Fatalf("CountActiveByBorrower default: %d %v", n, err)
	}
}
