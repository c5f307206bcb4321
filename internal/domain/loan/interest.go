package loan

import (
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// SecondsPerYear is the 365-day year used to annualize interest.
const SecondsPerYear int64 = 31_536_000

// AnnualRate is the fixed 30% simple annual interest charged on repayment.
var AnnualRate = decimal.RequireFromString("0.30")

type Repayment struct {
	Elapsed  int64  `json:"elapsed_seconds"`
	Interest uint64 `json:"interest"`
	Total    uint64 `json:"total"`
}

// AccruedInterest returns floor(amount * AnnualRate * elapsed / SecondsPerYear).
// Arithmetic is exact; the only rounding is the final truncation toward zero.
func AccruedInterest(amount uint64, elapsed int64) (uint64, error) {
	if amount == 0 || elapsed <= 0 {
		return 0, nil
	}
	principal := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
	accrued := principal.Mul(AnnualRate).Mul(decimal.NewFromInt(elapsed))
	q, _ := accrued.QuoRem(decimal.NewFromInt(SecondsPerYear), 0)
	n := q.BigInt()
	if !n.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return n.Uint64(), nil
}

// ComputeRepayment prices the repayment of amount funded at fundDate and repaid at now.
// A now earlier than fundDate accrues nothing.
func ComputeRepayment(amount uint64, fundDate, now time.Time) (Repayment, error) {
	elapsed := now.Unix() - fundDate.Unix()
	if elapsed < 0 {
		elapsed = 0
	}
	interest, err := AccruedInterest(amount, elapsed)
	if err != nil {
		return Repayment{}, err
	}
	if interest > math.MaxUint64-amount {
		return Repayment{}, ErrAmountOverflow
	}
	return Repayment{Elapsed: elapsed, Interest: interest, Total: amount + interest}, nil
}
