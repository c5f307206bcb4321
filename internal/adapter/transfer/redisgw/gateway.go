// Package redisgw keeps balances in a Redis hash and moves them with a single Lua script,
// so a debit and its credit are applied together or not at all.
package redisgw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"peerly-ledger/internal/domain/transfer"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultBalancesKey = "ledger:balances"
	DefaultReceiptsKey = "ledger:receipts"

	errInsufficient = "INSUFFICIENT_FUNDS"
	errOverflow     = "BALANCE_OVERFLOW"
)

// KEYS[1] balances hash, KEYS[2] receipts list
// ARGV[1] from, ARGV[2] to, ARGV[3] amount, ARGV[4] -amount, ARGV[5] receipt json
var transferScript = redis.NewScript(`
local left = redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[4])
if left < 0 then
  redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[3])
  return redis.error_reply('` + errInsufficient + `')
end
local credited = redis.pcall('HINCRBY', KEYS[1], ARGV[2], ARGV[3])
if type(credited) == 'table' and credited.err then
  redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[3])
  return redis.error_reply('` + errOverflow + `')
end
redis.call('RPUSH', KEYS[2], ARGV[5])
return left
`)

type Gateway struct {
	rdb         *redis.Client
	balancesKey string
	receiptsKey string
}

var _ transfer.Gateway = (*Gateway)(nil)

func NewGateway(rdb *redis.Client) *Gateway {
	return &Gateway{rdb: rdb, balancesKey: DefaultBalancesKey, receiptsKey: DefaultReceiptsKey}
}

// Balances are redis integers; anything above MaxInt64 cannot be represented.
func checkAmount(amount uint64) error {
	if amount > math.MaxInt64 {
		return fmt.Errorf("%w: amount %d exceeds redis integer range", transfer.ErrInvalidTransfer, amount)
	}
	return nil
}

func (g *Gateway) Credit(ctx context.Context, id string, amount uint64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return g.rdb.HIncrBy(ctx, g.balancesKey, id, int64(amount)).Err()
}

func (g *Gateway) Balance(ctx context.Context, id string) (uint64, error) {
	v, err := g.rdb.HGet(ctx, g.balancesKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(v, 10, 64)
}

func (g *Gateway) Transfer(ctx context.Context, from, to string, amount uint64) (*transfer.Receipt, error) {
	if err := transfer.Validate(from, to, amount); err != nil {
		return nil, err
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	r := transfer.Receipt{ID: uuid.NewString(), From: from, To: to, Amount: amount, At: time.Now().UTC()}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	amt := strconv.FormatUint(amount, 10)
	err = transferScript.Run(ctx, g.rdb,
		[]string{g.balancesKey, g.receiptsKey},
		from, to, amt, "-"+amt, string(b),
	).Err()
	switch {
	case err == nil:
	case strings.Contains(err.Error(), errInsufficient):
		return nil, fmt.Errorf("%w: %s cannot cover %d", transfer.ErrInsufficientFunds, from, amount)
	case strings.Contains(err.Error(), errOverflow):
		return nil, fmt.Errorf("%w: credit overflows balance of %s", transfer.ErrInvalidTransfer, to)
	default:
		return nil, err
	}

	slog.DebugContext(ctx, "redis transfer", "receipt", r.ID, "from", from, "to", to, "amount", amount)
	return &r, nil
}
