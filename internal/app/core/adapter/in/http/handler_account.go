package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
)

// GET /api/v1/account/balance
// 只回報登入者自己的帳戶餘額
func (s *Server) balance(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return writeDomainErr(c, domain.ErrUnauthorized)
	}
	bal, err := s.core.GetAccountBalance(c.Context(), id)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(fiber.Map{"balance": bal})
}

// POST /api/v1/account/transfer
// 來源帳戶固定為登入者本人，body 只帶目標與金額
func (s *Server) transfer(c *fiber.Ctx) error {
	from, ok := callerID(c)
	if !ok {
		return writeDomainErr(c, domain.ErrUnauthorized)
	}
	var req transferRequest
	if fields, ok := parseBody(c, &req); !ok {
		return writeValidationErr(c, fields)
	}
	if err := s.core.Transfer(c.Context(), from, req.To, req.Amount); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(fiber.Map{"msg": "transfer successful"})
}

// POST /api/v1/account/credit
// 入金同樣要求登入；回傳入金後餘額
func (s *Server) credit(c *fiber.Ctx) error {
	if _, ok := callerID(c); !ok {
		return writeDomainErr(c, domain.ErrUnauthorized)
	}
	var req creditRequest
	if fields, ok := parseBody(c, &req); !ok {
		return writeValidationErr(c, fields)
	}
	newBalance, err := s.core.Credit(c.Context(), req.AccountID, req.Amount)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(fiber.Map{
		"msg":        "balance updated",
		"newBalance": newBalance,
	})
}
