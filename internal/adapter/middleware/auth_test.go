package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"peerly-ledger/internal/security"
	"peerly-ledger/pkg/id"

	"github.com/labstack/echo/v4"
)

func setupAuthEcho(tm security.TokenManager) *echo.Echo {
	e := echo.New()
	e.Use(Authenticate(tm))
	e.POST("/loans", func(c echo.Context) error {
		return c.String(http.StatusOK, CallerID(c))
	})
	return e
}

func TestAuthenticate(t *testing.T) {
	tm := security.NewTokenManager("s3cret")
	who := id.NewID32()
	good, err := tm.Issue(who, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other, _ := security.NewTokenManager("other").Issue(who, time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + good, http.StatusOK},
		{"lowercase scheme", "bearer " + good, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized},
	}
	e := setupAuthEcho(tm)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/loans", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && rec.Body.String() != who {
				t.Fatalf("caller=%q want %q", rec.Body.String(), who)
			}
		})
	}
}

func TestCallerID_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got := CallerID(c); got != "" {
		t.Fatalf("CallerID=%q, want empty", got)
	}
}
