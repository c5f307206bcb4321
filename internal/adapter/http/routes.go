package http

import (
	"time"

	"peerly-ledger/internal/adapter/middleware"
	"peerly-ledger/internal/security"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Routes struct {
	Health   *Handler
	Loans    *LoanHandler
	Accounts *AccountHandler

	Tokens         security.TokenManager
	Idempotency    *redis.Client
	IdempotencyTTL time.Duration
}

// Register mounts the ledger API on e. Writes go through auth then idempotency.
func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	write := []echo.MiddlewareFunc{
		middleware.Authenticate(r.Tokens),
		middleware.IdempotencyMiddleware(r.Idempotency, r.IdempotencyTTL),
	}
	e.POST("/loans", r.Loans.RequestLoan, write...)
	e.POST("/loans/:address/fund", r.Loans.FundLoan, write...)
	e.POST("/loans/:address/repay", r.Loans.RepayLoan, write...)

	e.GET("/loans", r.Loans.ListLoans)
	e.GET("/loans/:address", r.Loans.GetLoan)
	e.GET("/loans/:address/quote", r.Loans.Quote)
	e.GET("/accounts/:account_id", r.Accounts.GetAccountDetails)
}
