package account

// Role rules are kept here so every transition consults the same table:
//
//	             borrow        lend
//	unclassified borrower      lender
//	borrower     borrower      rejected
//	lender       rejected      lender

// CanBorrow reports whether a participant with classification c may request a loan.
func (c Classification) CanBorrow() bool { return c != Lender }

// CanLend reports whether a participant with classification c may fund a loan.
func (c Classification) CanLend() bool { return c != Borrower }

// AfterBorrow is the classification pinned by a successful loan request.
func (c Classification) AfterBorrow() Classification {
	if c == Unclassified || c == "" {
		return Borrower
	}
	return c
}

// AfterLend is the classification pinned by a successful funding.
func (c Classification) AfterLend() Classification {
	if c == Borrower {
		return c
	}
	return Lender
}
