package checkout

import (
	"fmt"
	"time"

	domainerr "paygate/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates the short-lived session token embedded
// in a checkout URL. The token binds checkout id and merchant id so a
// payment-page completion call cannot be replayed against another checkout.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	MerchantID uint `json:"mid"`
	jwt.RegisteredClaims
}

func (m *TokenManager) Generate(checkoutID string, merchantID uint) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   checkoutID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) Validate(tokenString, checkoutID string) error {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return domainerr.ErrInvalidSessionToken
	}
	if claims.Subject != checkoutID {
		return domainerr.ErrInvalidSessionToken
	}
	return nil
}
