package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "peerly-ledger/internal/adapter/http"
	"peerly-ledger/internal/config"
	"peerly-ledger/internal/infrastructure/cache"
	"peerly-ledger/internal/infrastructure/metrics"
	"peerly-ledger/internal/logger"
	"peerly-ledger/internal/security"
	loanuc "peerly-ledger/internal/usecase/loan"
	"peerly-ledger/internal/usecase/query"
	"peerly-ledger/pkg/clock"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	gw, err := openGateway(context.Background(), cfg, rdb)
	if err != nil {
		return err
	}

	engine := loanuc.NewUsecase(st.uow, gw, clock.System(), loanuc.Config{
		MaxActivePerBorrower: cfg.MaxActivePerBorrower,
		Metrics:              metrics.Ledger(),
	})
	q := query.NewUsecase(st.uow)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"store": st.ping,
			"redis": cache.Ping(rdb),
		}),
		Loans:          httpadp.NewLoanHandler(engine, q),
		Accounts:       httpadp.NewAccountHandler(q),
		Tokens:         security.NewTokenManager(cfg.JWTSecret),
		Idempotency:    rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	}.Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "store", cfg.StoreBackend, "transfer", cfg.TransferBackend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
