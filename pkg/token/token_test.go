package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	m, err := NewMaker("test-secret", time.Minute)
	require.NoError(t, err)

	tok, err := m.Issue(42, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
}

func TestVerifyWrongSecret(t *testing.T) {
	m1, _ := NewMaker("secret-one", time.Minute)
	m2, _ := NewMaker("secret-two", time.Minute)

	tok, err := m1.Issue(1, "a@example.com")
	require.NoError(t, err)

	_, err = m2.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	m, _ := NewMaker("test-secret", time.Minute)

	// 直接造一個已過期的 token
	now := time.Now().Add(-2 * time.Hour)
	claims := Claims{
		UserID: 1,
		Email:  "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNonPositiveTTLRejected(t *testing.T) {
	_, err := NewMaker("test-secret", 0)
	require.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	m, _ := NewMaker("test-secret", time.Minute)
	_, err := m.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := NewMaker("", time.Minute)
	require.Error(t, err)
}
