package loan

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindState
	KindCapacity
	KindNotFound
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindCapacity:
		return "capacity"
	case KindNotFound:
		return "not_found"
	case KindTransfer:
		return "transfer"
	}
	return "unknown"
}

// Error is a rejected transition. Sentinels below are compared with errors.Is.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(k Kind, code, msg string) *Error { return &Error{Kind: k, Code: code, Msg: msg} }

var (
	ErrInvalidAmount     = newError(KindValidation, "invalid_amount", "invalid loan amount")
	ErrInvalidDueDate    = newError(KindValidation, "invalid_due_date", "invalid due date")
	ErrInvalidCollateral = newError(KindValidation, "invalid_collateral", "collateral reference too long")
	ErrAmountOverflow    = newError(KindValidation, "amount_overflow", "repayment amount overflows")
	ErrInvalidCaller     = newError(KindValidation, "invalid_caller", "caller is not a valid participant")
	ErrInvalidStatus     = newError(KindValidation, "invalid_status", "unknown loan status")

	ErrLenderCannotBorrow   = newError(KindAuthorization, "lender_cannot_borrow", "lender cannot borrow")
	ErrBorrowerCannotLend   = newError(KindAuthorization, "borrower_cannot_lend", "borrower cannot lend")
	ErrUnauthorizedBorrower = newError(KindAuthorization, "unauthorized_borrower", "unauthorized borrower")

	ErrLoanNotFundable  = newError(KindState, "loan_not_fundable", "loan is not in a fundable state")
	ErrLoanNotRepayable = newError(KindState, "loan_not_repayable", "loan is not in a repayable state")

	ErrCapacityExceeded = newError(KindCapacity, "capacity_exceeded", "ledger capacity exceeded")
	ErrMaxLoansReached  = newError(KindCapacity, "max_loans_reached", "maximum number of loans reached")

	ErrNotFound = newError(KindNotFound, "loan_not_found", "loan not found")

	ErrTransferFailed = newError(KindTransfer, "transfer_failed", "value transfer failed")
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the stable code of the first *Error in err's chain, or "internal".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
