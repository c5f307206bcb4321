package http

import (
	"net/http"

	"peerly-ledger/internal/usecase/query"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct{ query *query.Usecase }

func NewAccountHandler(q *query.Usecase) *AccountHandler { return &AccountHandler{query: q} }

type accountReq struct {
	AccountID string `param:"account_id" validate:"required,hex32"`
}

// GetAccountDetails: GET /accounts/:account_id. Ids that are not 32-char hex are 422;
// any well-formed id, the all-zero sentinel included, is 200.
func (h *AccountHandler) GetAccountDetails(c echo.Context) error {
	req := accountReq{AccountID: c.Param("account_id")}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.query.GetAccountDetails(c.Request().Context(), req.AccountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
