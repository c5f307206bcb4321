package middleware

import (
	"net/http"
	"strings"

	"peerly-ledger/internal/security"

	"github.com/labstack/echo/v4"
)

const callerKey = "ledger.caller"

// Authenticate requires a bearer token and stores its subject as the caller id.
func Authenticate(tm security.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(strings.TrimSpace(raw), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := tm.Validate(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			SetCaller(c, claims.Subject)
			return next(c)
		}
	}
}

func SetCaller(c echo.Context, participantID string) { c.Set(callerKey, participantID) }

// CallerID is empty when the request was not authenticated.
func CallerID(c echo.Context) string {
	s, _ := c.Get(callerKey).(string)
	return s
}
