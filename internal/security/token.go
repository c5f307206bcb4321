package security

import (
	"errors"
	"time"

	"peerly-ledger/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	issuer   = "peerly-ledger"
	audience = "ledger-api"
)

// ParticipantClaims carry the caller's participant id in the subject.
type ParticipantClaims struct {
	jwt.RegisteredClaims
}

type TokenManager interface {
	Issue(participantID string, ttl time.Duration) (string, error)
	Validate(tokenString string) (*ParticipantClaims, error)
}

type tokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{secret: []byte(secret), now: time.Now}
}

func (m *tokenManager) Issue(participantID string, ttl time.Duration) (string, error) {
	if !id.IsParticipant(participantID) {
		return "", ErrInvalidToken
	}
	now := m.now()
	claims := ParticipantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   participantID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) Validate(tokenString string) (*ParticipantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ParticipantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ParticipantClaims)
	if !ok || !token.Valid || !id.IsParticipant(claims.Subject) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
