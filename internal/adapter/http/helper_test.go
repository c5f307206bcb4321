package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"peerly-ledger/internal/adapter/repository/memory"
	"peerly-ledger/internal/security"
	"peerly-ledger/internal/testutil/transfermock"
	loanuc "peerly-ledger/internal/usecase/loan"
	"peerly-ledger/internal/usecase/query"
	"peerly-ledger/pkg/clock"
	"peerly-ledger/pkg/id"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	lenderID   = "11111111111111111111111111111111"
	testSecret = "test-secret"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

type server struct {
	e      *echo.Echo
	pool   *memory.Pool
	gw     *transfermock.Gateway
	clk    *clock.Manual
	tokens security.TokenManager
}

func newServer(t *testing.T) *server {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := &server{
		e:      echo.New(),
		pool:   memory.NewPool(memory.Limits{}),
		gw:     &transfermock.Gateway{},
		clk:    clock.NewManual(time.Now().UTC().Truncate(time.Second)),
		tokens: security.NewTokenManager(testSecret),
	}
	s.e.Validator = NewValidator()

	engine := loanuc.NewUsecase(s.pool, s.gw, s.clk, loanuc.Config{MaxActivePerBorrower: 3})
	q := query.NewUsecase(s.pool)
	Routes{
		Health:         NewHandler(nil),
		Loans:          NewLoanHandler(engine, q),
		Accounts:       NewAccountHandler(q),
		Tokens:         s.tokens,
		Idempotency:    rdb,
		IdempotencyTTL: time.Minute,
	}.Register(s.e)
	return s
}

func (s *server) token(t *testing.T, who string) string {
	t.Helper()
	tok, err := s.tokens.Issue(who, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

// post sends an authenticated write with fresh idempotency headers.
func (s *server) post(t *testing.T, who, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.postWithID(t, who, path, body, id.NewID32())
}

func (s *server) postWithID(t *testing.T, who, path string, body any, reqID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(stdhttp.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if who != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(t, who))
	}
	req.Header.Set("Ax-Request-Id", reqID)
	req.Header.Set("Ax-Request-At", strconv.FormatInt(time.Now().Unix(), 10))
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) requestLoan(t *testing.T, who string, amount uint64) loanuc.LoanDTO {
	t.Helper()
	rec := s.post(t, who, "/loans", map[string]any{
		"amount":       amount,
		"mortgage_cid": "bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku",
		"due_date":     s.clk.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("request loan: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var dto loanuc.LoanDTO
	decode(t, rec, &dto)
	return dto
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
