package http

import (
	"net/http"
	"time"

	"peerly-ledger/internal/adapter/middleware"
	domain "peerly-ledger/internal/domain/loan"
	loanuc "peerly-ledger/internal/usecase/loan"
	"peerly-ledger/internal/usecase/query"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	engine *loanuc.Usecase
	query  *query.Usecase
}

func NewLoanHandler(engine *loanuc.Usecase, q *query.Usecase) *LoanHandler {
	return &LoanHandler{engine: engine, query: q}
}

type requestLoanReq struct {
	Amount      uint64 `json:"amount"       validate:"gt=0"`
	MortgageCID string `json:"mortgage_cid" validate:"max=200"`
	// unix seconds
	DueDate int64 `json:"due_date" validate:"gt=0"`
}

type addressReq struct {
	Address string `param:"address" validate:"required,hex32"`
}

type listLoansReq struct {
	Status string `query:"status" validate:"omitempty,loanstatus"`
}

type quoteReq struct {
	Address string `param:"address" validate:"required,hex32"`
	// unix seconds; zero means now
	At int64 `query:"at" validate:"gte=0"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.engine.RequestLoan(c.Request().Context(), loanuc.RequestLoanInput{
		BorrowerID:  middleware.CallerID(c),
		Amount:      req.Amount,
		MortgageCID: req.MortgageCID,
		DueDate:     time.Unix(req.DueDate, 0).UTC(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) FundLoan(c echo.Context) error {
	var req addressReq
	if ok, err := bindAddress(c, &req); !ok {
		return err
	}
	res, err := h.engine.FundLoan(c.Request().Context(), loanuc.FundLoanInput{
		LenderID: middleware.CallerID(c),
		Address:  req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	var req addressReq
	if ok, err := bindAddress(c, &req); !ok {
		return err
	}
	res, err := h.engine.RepayLoan(c.Request().Context(), loanuc.RepayLoanInput{
		BorrowerID: middleware.CallerID(c),
		Address:    req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	var req listLoansReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.query.GetAllLoans(c.Request().Context(), domain.Status(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	var req addressReq
	if ok, err := bindAddress(c, &req); !ok {
		return err
	}
	dto, err := h.query.GetLoan(c.Request().Context(), req.Address)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	var at time.Time
	if req.At > 0 {
		at = time.Unix(req.At, 0).UTC()
	}
	q, err := h.engine.Quote(c.Request().Context(), req.Address, at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// bindAddress reports false when it has already written a validation response.
func bindAddress(c echo.Context, req *addressReq) (bool, error) {
	req.Address = c.Param("address")
	if err := c.Validate(req); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}
