package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/adapter/out/memory"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/token"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ledger, err := memory.NewMutexLedger(nil)
	require.NoError(t, err)
	tokens, err := token.NewMaker("test-secret", time.Hour)
	require.NoError(t, err)

	core := usecase.NewCoreUseCase(ledger, nil)
	repo, err := memory.NewUserRepo(nil)
	require.NoError(t, err)
	users := usecase.NewUserUseCase(repo, ledger, tokens, nil)
	return NewServer(core, users, tokens, nil)
}

func doJSON(t *testing.T, s *Server, method, path, bearer string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// signupAndLogin 建立使用者並回傳 (userID, token)
func signupAndLogin(t *testing.T, s *Server, username string) (int64, string) {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)
	resp, body := doJSON(t, s, "POST", "/api/v1/user/signup", "", map[string]any{
		"username":  username,
		"password":  "pass1234",
		"firstName": "First",
		"lastName":  "Last",
		"email":     email,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	userID := int64(body["userId"].(float64))

	resp, body = doJSON(t, s, "POST", "/api/v1/user/login", "", map[string]any{
		"email":    email,
		"password": "pass1234",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	return userID, body["token"].(string)
}

func TestSignupLoginBalance(t *testing.T) {
	s := newTestServer(t)
	_, tok := signupAndLogin(t, s, "alice")

	resp, body := doJSON(t, s, "GET", "/api/v1/account/balance", tok, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, float64(0), body["balance"])
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	// 查詢與變更餘額的路由缺憑證一律 401
	paths := []struct{ method, path string }{
		{"GET", "/api/v1/account/balance"},
		{"POST", "/api/v1/account/transfer"},
		{"POST", "/api/v1/account/credit"},
		{"GET", "/api/v1/user/me"},
	}
	for _, p := range paths {
		resp, body := doJSON(t, s, p.method, p.path, "", nil)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode, p.path)
		require.Equal(t, "unauthorized", body["code"])
	}

	// 偽造的 token 也一樣
	resp, _ := doJSON(t, s, "GET", "/api/v1/account/balance", "garbage", nil)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestCreditAndTransferFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceTok := signupAndLogin(t, s, "alice")
	bobID, bobTok := signupAndLogin(t, s, "bob")

	// A=100, B=50
	resp, body := doJSON(t, s, "POST", "/api/v1/account/credit", aliceTok, map[string]any{
		"accountId": aliceID, "amount": 100,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, float64(100), body["newBalance"])

	resp, _ = doJSON(t, s, "POST", "/api/v1/account/credit", bobTok, map[string]any{
		"accountId": bobID, "amount": 50,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	// 轉 30：A=70, B=80
	resp, _ = doJSON(t, s, "POST", "/api/v1/account/transfer", aliceTok, map[string]any{
		"to": bobID, "amount": 30,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	_, body = doJSON(t, s, "GET", "/api/v1/account/balance", aliceTok, nil)
	require.Equal(t, float64(70), body["balance"])
	_, body = doJSON(t, s, "GET", "/api/v1/account/balance", bobTok, nil)
	require.Equal(t, float64(80), body["balance"])
}

func TestTransferInsufficient(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceTok := signupAndLogin(t, s, "alice")
	bobID, _ := signupAndLogin(t, s, "bob")

	_, _ = doJSON(t, s, "POST", "/api/v1/account/credit", aliceTok, map[string]any{
		"accountId": aliceID, "amount": 10,
	})

	resp, body := doJSON(t, s, "POST", "/api/v1/account/transfer", aliceTok, map[string]any{
		"to": bobID, "amount": 50,
	})
	require.Equal(t, nethttp.StatusConflict, resp.StatusCode)
	require.Equal(t, "insufficient_balance", body["code"])
	require.Equal(t, false, body["retryable"])

	// 餘額不得變動
	_, body = doJSON(t, s, "GET", "/api/v1/account/balance", aliceTok, nil)
	require.Equal(t, float64(10), body["balance"])
}

func TestTransferInvalidDestination(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceTok := signupAndLogin(t, s, "alice")

	_, _ = doJSON(t, s, "POST", "/api/v1/account/credit", aliceTok, map[string]any{
		"accountId": aliceID, "amount": 100,
	})

	resp, body := doJSON(t, s, "POST", "/api/v1/account/transfer", aliceTok, map[string]any{
		"to": 9999, "amount": 10,
	})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_input", body["code"])

	_, body = doJSON(t, s, "GET", "/api/v1/account/balance", aliceTok, nil)
	require.Equal(t, float64(100), body["balance"])
}

func TestValidationFailsFast(t *testing.T) {
	s := newTestServer(t)
	_, tok := signupAndLogin(t, s, "alice")

	// 缺欄位：列出違規欄位，不碰儲存層
	resp, body := doJSON(t, s, "POST", "/api/v1/account/transfer", tok, map[string]any{
		"amount": 0,
	})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_input", body["code"])
	require.NotEmpty(t, body["fields"])

	// signup 的 email 格式
	resp, body = doJSON(t, s, "POST", "/api/v1/user/signup", "", map[string]any{
		"username": "bob", "password": "pass1234",
		"firstName": "B", "lastName": "B", "email": "not-an-email",
	})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["fields"], "Email")
}

func TestUserProfileAndSearch(t *testing.T) {
	s := newTestServer(t)
	_, tok := signupAndLogin(t, s, "alice")
	_, _ = signupAndLogin(t, s, "bob")

	resp, body := doJSON(t, s, "GET", "/api/v1/user/me", tok, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", body["username"])

	resp, body = doJSON(t, s, "GET", "/api/v1/user/search?filter=First", tok, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Len(t, body["user"], 2)
}

func TestDuplicateSignup(t *testing.T) {
	s := newTestServer(t)
	_, _ = signupAndLogin(t, s, "alice")

	resp, body := doJSON(t, s, "POST", "/api/v1/user/signup", "", map[string]any{
		"username": "alice", "password": "pass1234",
		"firstName": "A", "lastName": "A", "email": "alice@example.com",
	})
	require.Equal(t, nethttp.StatusConflict, resp.StatusCode)
	require.Equal(t, "already_exists", body["code"])
}
