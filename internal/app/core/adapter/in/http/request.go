package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// 請求都先解析成明確的結構並通過欄位驗證，
// 任何儲存層互動之前就擋下畸形輸入 (fail fast)

type signupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=4"`
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Password  *string `json:"password" validate:"omitempty,min=4"`
	FirstName *string `json:"firstName" validate:"omitempty,max=64"`
	LastName  *string `json:"lastName" validate:"omitempty,max=64"`
}

type transferRequest struct {
	To     int64 `json:"to" validate:"required,gt=0"`
	Amount int64 `json:"amount" validate:"required,gt=0"` // 最小貨幣單位（分）
}

type creditRequest struct {
	AccountID int64 `json:"accountId" validate:"required,gt=0"`
	Amount    int64 `json:"amount" validate:"required,gt=0"`
}

var validate = validator.New()

// parseBody 解析 JSON body 並驗證；回傳違規欄位清單
func parseBody(c *fiber.Ctx, dst any) (fields []string, ok bool) {
	if err := c.BodyParser(dst); err != nil {
		return []string{"body"}, false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fields, false
		}
		return []string{"body"}, false
	}
	return nil, true
}
