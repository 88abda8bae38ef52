package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, in LoginInput) error
}

// accesstokenの発行を抽象化（main.goでJWT実装を注入）
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

type AuthUsecase struct {
	users     repository.UserRepository
	validator AuthValidator
	issuer    TokenIssuer
}

func NewAuthUsecase(
	users repository.UserRepository,
	validator AuthValidator,
	issuer TokenIssuer,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		validator: validator,
		issuer:    issuer,
	}
}

type ProfileInput struct {
	Title       string `json:"title"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Zip         string `json:"zip"`
}

type RegisterInput struct {
	PhoneNumber string       `json:"phone_number"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Password    string       `json:"password"`
	Profile     ProfileInput `json:"profile"`
}

// ログインは電話番号かメールのどちらか
type LoginInput struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type UserDTO struct {
	ID          int64  `json:"id"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
}

type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthResponse struct {
	Message string   `json:"message,omitempty"`
	User    UserDTO  `json:"user"`
	Token   TokenDTO `json:"token"`
}

// Register は会員登録。パスワードは必ずハッシュ化して保存（平文保存しない）。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return AuthResponse{}, err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//重複チェック（unique制約が最後の砦）
	if existing, err := u.users.FindByPhoneNumber(ctx, in.PhoneNumber); err == nil && existing != nil {
		return AuthResponse{}, NewHTTPError(http.StatusConflict, "phone number already registered")
	}
	if existing, err := u.users.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return AuthResponse{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	user := &model.User{
		PhoneNumber:  in.PhoneNumber,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
		IsActive:     true,
	}

	profile := &model.UserProfile{
		Title:   in.Profile.Title,
		Address: in.Profile.Address,
		Country: in.Profile.Country,
		City:    in.Profile.City,
		Zip:     in.Profile.Zip,
	}
	if in.Profile.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", in.Profile.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		} else {
			return AuthResponse{}, NewHTTPError(http.StatusBadRequest, "invalid date_of_birth")
		}
	}

	if err := u.users.Create(ctx, user, profile); err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusConflict, "user already exists")
	}

	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, time.Now())
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthResponse{
		Message: "User registered successfully",
		User:    toUserDTO(user),
		Token:   TokenDTO{AccessToken: token, ExpiresAt: expiresAt},
	}, nil
}

// Login は電話番号またはメールでログイン。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if err := u.validator.ValidateLogin(ctx, in); err != nil {
		return AuthResponse{}, err
	}

	var user *model.User
	var err error
	if in.PhoneNumber != "" {
		user, err = u.users.FindByPhoneNumber(ctx, in.PhoneNumber)
	} else {
		user, err = u.users.FindByEmail(ctx, in.Email)
	}
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return AuthResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//last_login更新
	now := time.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthResponse{
		User:  toUserDTO(user),
		Token: TokenDTO{AccessToken: token, ExpiresAt: expiresAt},
	}, nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        string(u.Role),
	}
}
