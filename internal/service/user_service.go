package service

import (
	"context"

	"go-blog-api/internal/domain"
)

// UserService 后台用户管理；路由层已限定 admin 角色
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

type UserPage struct {
	Items      []domain.User     `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter) (*UserPage, error) {
	f.Normalize()
	items, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Items:      items,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *UserService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, domain.Validation("validation failed", fieldErrors{"role": "role must be user or admin"})
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Active = active
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}
