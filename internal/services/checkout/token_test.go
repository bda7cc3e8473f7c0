package checkout

import (
	"testing"
	"time"

	domainerr "paygate/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)

	token, err := m.Generate("chk-1", 7)
	require.NoError(t, err)
	assert.NoError(t, m.Validate(token, "chk-1"))
}

func TestTokenBoundToCheckout(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)

	token, err := m.Generate("chk-1", 7)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Validate(token, "chk-2"), domainerr.ErrInvalidSessionToken)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Minute)
	verifier := NewTokenManager("secret-b", time.Minute)

	token, err := issuer.Generate("chk-1", 7)
	require.NoError(t, err)
	assert.ErrorIs(t, verifier.Validate(token, "chk-1"), domainerr.ErrInvalidSessionToken)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	m.ttl = -time.Minute

	token, err := m.Generate("chk-1", 7)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Validate(token, "chk-1"), domainerr.ErrInvalidSessionToken)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	assert.ErrorIs(t, m.Validate("not-a-token", "chk-1"), domainerr.ErrInvalidSessionToken)
	assert.ErrorIs(t, m.Validate("", "chk-1"), domainerr.ErrInvalidSessionToken)
}
