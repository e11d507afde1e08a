package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
)

// userView 對外的使用者表示（不含密碼雜湊）
type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// POST /api/v1/user/signup
func (s *Server) signup(c *fiber.Ctx) error {
	var req signupRequest
	if fields, ok := parseBody(c, &req); !ok {
		return writeValidationErr(c, fields)
	}
	user := &domain.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	id, err := s.users.Signup(c.Context(), user, req.Password)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":    "signup success",
		"userId": id,
	})
}

// POST /api/v1/user/login
func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if fields, ok := parseBody(c, &req); !ok {
		return writeValidationErr(c, fields)
	}
	tok, user, err := s.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(fiber.Map{
		"userId": user.ID,
		"token":  tok,
	})
}

// GET /api/v1/user/me
func (s *Server) me(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return writeDomainErr(c, domain.ErrUnauthorized)
	}
	user, err := s.users.Profile(c.Context(), id)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(toUserView(user))
}

// PUT /api/v1/user/update
func (s *Server) updateUser(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return writeDomainErr(c, domain.ErrUnauthorized)
	}
	var req updateUserRequest
	if fields, ok := parseBody(c, &req); !ok {
		return writeValidationErr(c, fields)
	}
	err := s.users.Update(c.Context(), id, usecase.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(fiber.Map{"msg": "user updated"})
}

// GET /api/v1/user/search?filter=
func (s *Server) searchUsers(c *fiber.Ctx) error {
	filter := c.Query("filter")
	users, err := s.users.Search(c.Context(), filter)
	if err != nil {
		return writeDomainErr(c, err)
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return c.JSON(fiber.Map{"user": views})
}
