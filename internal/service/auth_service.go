package service

import (
	"context"
	"strings"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwter: jwter}
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	errs := fieldErrors{}
	if !lenBetween(in.Username, 3, 30) {
		errs.add("username", "username must be 3-30 characters")
	} else if !usernameRx.MatchString(in.Username) {
		errs.add("username", "username may contain only letters, digits and underscores")
	}
	if !emailRx.MatchString(in.Email) {
		errs.add("email", "invalid email address")
	}
	if len(in.Password) < 6 {
		errs.add("password", "password must be at least 6 characters")
	} else if len(in.Password) > utils.MaxPasswordBytes {
		// bcrypt 超过 72 字节直接报错，不能放进散列流程
		errs.add("password", "password must be at most 72 bytes")
	}
	if !errs.empty() {
		return nil, domain.Validation("validation failed", errs)
	}

	if existing, err := s.users.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Conflict("email already registered")
	}
	if existing, err := s.users.FindByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Conflict("username already taken")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发下预检逃过、落库撞唯一键
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.Conflict("email or username already taken")
		}
		return nil, err
	}
	return s.issueFor(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// 不区分“账号不存在”和“密码错误”
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.Unauthorized("invalid credentials")
	}
	if !u.Active {
		return nil, domain.Unauthorized("account is deactivated")
	}
	return s.issueFor(u)
}

func (s *AuthService) issueFor(u *domain.User) (*AuthResult, error) {
	tok, err := s.jwter.Issue(u.Identity())
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}

// Me 按身份取当前用户
func (s *AuthService) Me(ctx context.Context, id *domain.Identity) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, id *domain.Identity, in ProfileInput) (*domain.User, error) {
	u, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Bio != nil && !lenBetween(*in.Bio, 0, 500) {
		return nil, domain.Validation("validation failed", fieldErrors{"bio": "bio must be at most 500 characters"})
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Avatar != nil {
		u.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type PasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *AuthService) ChangePassword(ctx context.Context, id *domain.Identity, in PasswordInput) error {
	u, err := s.Me(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(in.CurrentPassword, u.PasswordHash) {
		return domain.Unauthorized("current password is incorrect")
	}
	if len(in.NewPassword) < 6 {
		return domain.Validation("validation failed", fieldErrors{"newPassword": "password must be at least 6 characters"})
	}
	if len(in.NewPassword) > utils.MaxPasswordBytes {
		return domain.Validation("validation failed", fieldErrors{"newPassword": "password must be at most 72 bytes"})
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return domain.Internal("hash password failed", err)
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}
