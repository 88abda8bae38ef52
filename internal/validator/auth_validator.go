package validator

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"app/internal/usecase"
)

// 会員登録・ログインの入力検証。
type AuthValidator struct{}

func NewAuthValidator() *AuthValidator {
	return &AuthValidator{}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// インド国内番号（+91始まり）のみ受け付ける
var phoneRe = regexp.MustCompile(`^\+91[0-9]{10}$`)

const minPasswordLen = 8

func (v *AuthValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	if !phoneRe.MatchString(strings.TrimSpace(in.PhoneNumber)) {
		return usecase.NewHTTPError(http.StatusBadRequest, "phone number must be an Indian number starting with +91")
	}
	if !emailRe.MatchString(strings.TrimSpace(in.Email)) {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if in.FirstName == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "first_name is required")
	}
	if len(in.Password) < minPasswordLen {
		return usecase.NewHTTPError(http.StatusBadRequest, "password too short")
	}
	return nil
}

func (v *AuthValidator) ValidateLogin(ctx context.Context, in usecase.LoginInput) error {
	if in.PhoneNumber == "" && in.Email == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "phone_number or email is required")
	}
	if in.Password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	return nil
}
