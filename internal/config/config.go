package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"peerly-ledger/pkg/id"
)

const (
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	TransferMemory = "memory"
	TransferRedis  = "redis"
)

type Config struct {
	AppPort string

	StoreBackend string
	MySQLHost    string
	MySQLPort    string
	MySQLDB      string
	MySQLUser    string
	MySQLPass    string
	SQLitePath   string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int
	JWTSecret    string

	TransferBackend string
	// SEED_BALANCES="<id>:<amount>,..." credits the memory book at startup.
	SeedBalances map[string]uint64

	MaxAccounts          int
	MaxLoans             int
	MaxActivePerBorrower int

	LogLevel  string
	LogFormat string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// getint falls back to d when k is unset; a malformed value is an error.
func getint(k string, d int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return n, nil
}

func Load() (*Config, error) {
	c := &Config{
		AppPort:      getenv("APP_PORT", "8080"),
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", StoreMySQL)),
		MySQLHost:    getenv("MYSQL_HOST", "mysql"),
		MySQLPort:    getenv("MYSQL_PORT", "3306"),
		MySQLDB:      getenv("MYSQL_DB", "ledger"),
		MySQLUser:    getenv("MYSQL_USER", "ledger"),
		MySQLPass:    getenv("MYSQL_PASS", "ledger"),
		SQLitePath:   getenv("SQLITE_PATH", "ledger.db"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		TransferBackend: strings.ToLower(getenv("TRANSFER_BACKEND", TransferMemory)),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}

	var errs []error
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"REDIS_DB", 0, &c.RedisDB},
		{"IDEMPOTENCY_TTL_SECONDS", 300, &c.IdempTTLSecs},
		{"LEDGER_MAX_ACCOUNTS", 0, &c.MaxAccounts},
		{"LEDGER_MAX_LOANS", 0, &c.MaxLoans},
		{"MAX_ACTIVE_LOANS_PER_BORROWER", 3, &c.MaxActivePerBorrower},
	}
	for _, f := range ints {
		n, err := getint(f.key, f.def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*f.dst = n
	}

	seeds, err := ParseSeedBalances(os.Getenv("SEED_BALANCES"))
	if err != nil {
		errs = append(errs, err)
	}
	c.SeedBalances = seeds

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseSeedBalances reads "<id>:<amount>" pairs separated by commas.
func ParseSeedBalances(raw string) (map[string]uint64, error) {
	out := map[string]uint64{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		who, amt, ok := strings.Cut(part, ":")
		if !ok || !id.IsParticipant(who) {
			return nil, fmt.Errorf("invalid SEED_BALANCES entry %q", part)
		}
		n, err := strconv.ParseUint(amt, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_BALANCES amount %q: %w", part, err)
		}
		out[who] += n
	}
	return out, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StoreBackend {
	case StoreMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.TransferBackend {
	case TransferMemory, TransferRedis:
	default:
		return fmt.Errorf("unknown TRANSFER_BACKEND %q", c.TransferBackend)
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if c.MaxAccounts < 0 || c.MaxLoans < 0 || c.MaxActivePerBorrower < 0 {
		return errors.New("ledger limits must not be negative")
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// StoreDSN is the gorm dialector input for the configured backend; empty for memory.
func (c *Config) StoreDSN() string {
	switch c.StoreBackend {
	case StoreMySQL:
		return c.MySQLDSN()
	case StoreSQLite:
		return c.SQLitePath
	}
	return ""
}
