package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker 簽發與驗證 Bearer Token (JWT HS256)
type Maker struct {
	secret []byte
	ttl    time.Duration
}

// Claims JWT 內容：使用者 ID 與 email
type Claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var (
	// ErrInvalidToken Token 無效、過期或簽章不符
	ErrInvalidToken = errors.New("invalid token")
)

// NewMaker 建立 Token Maker；secret 不可為空
func NewMaker(secret string, ttl time.Duration) (*Maker, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Maker{secret: []byte(secret), ttl: ttl}, nil
}

// Issue 為指定使用者簽發 Token
func (m *Maker) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify 驗證 Token 並取回 Claims
func (m *Maker) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		// 只接受 HS256，避免演算法混淆攻擊
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
