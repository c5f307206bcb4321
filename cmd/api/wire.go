package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"peerly-ledger/internal/adapter/repository/memory"
	"peerly-ledger/internal/adapter/repository/mysql"
	transfermem "peerly-ledger/internal/adapter/transfer/memory"
	"peerly-ledger/internal/adapter/transfer/redisgw"
	"peerly-ledger/internal/config"
	"peerly-ledger/internal/domain/transfer"
	"peerly-ledger/internal/domain/uow"
	"peerly-ledger/internal/infrastructure/db"
	"peerly-ledger/internal/logger"
)

type store struct {
	uow   uow.UnitOfWork
	ping  func(ctx context.Context) error
	close func()
}

func openStore(cfg *config.Config) (*store, error) {
	if cfg.StoreBackend == config.StoreMemory {
		return &store{
			uow:   memory.NewPool(memory.Limits{MaxAccounts: cfg.MaxAccounts, MaxLoans: cfg.MaxLoans}),
			ping:  func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}

	gdb, err := db.OpenGorm(cfg.StoreBackend, cfg.StoreDSN())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	if err := mysql.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return &store{
		uow:   mysql.NewGormUoW(gdb, mysql.Limits{MaxAccounts: cfg.MaxAccounts, MaxLoans: cfg.MaxLoans}),
		ping:  sqlDB.PingContext,
		close: func() { _ = sqlDB.Close() },
	}, nil
}

// openGateway credits SEED_BALANCES into whichever backend is selected.
func openGateway(ctx context.Context, cfg *config.Config, rdb *redis.Client) (transfer.Gateway, error) {
	switch cfg.TransferBackend {
	case config.TransferRedis:
		gw := redisgw.NewGateway(rdb)
		for who, amount := range cfg.SeedBalances {
			if err := gw.Credit(ctx, who, amount); err != nil {
				return nil, fmt.Errorf("seed %s: %w", who, err)
			}
		}
		logger.Info("transfer gateway ready", "backend", "redis", "seeded", len(cfg.SeedBalances))
		return gw, nil
	case config.TransferMemory:
		book := transfermem.NewBook()
		for who, amount := range cfg.SeedBalances {
			if err := book.Credit(who, amount); err != nil {
				return nil, fmt.Errorf("seed %s: %w", who, err)
			}
		}
		logger.Info("transfer gateway ready", "backend", "memory", "seeded", len(cfg.SeedBalances))
		return book, nil
	}
	return nil, fmt.Errorf("unknown transfer backend %q", cfg.TransferBackend)
}
