package service

import (
	"context"
	"strings"
	"time"

	"go-blog-api/internal/core/cache"
	"go-blog-api/internal/domain"
	"go-blog-api/pkg/slug"
	"go-blog-api/pkg/utils"
)

const categoryListKey = "categories:active"

type CategoryService struct {
	categories domain.CategoryRepository
	posts      domain.PostRepository
	cache      *cache.Cache
}

func NewCategoryService(categories domain.CategoryRepository, posts domain.PostRepository, c *cache.Cache) *CategoryService {
	return &CategoryService{categories: categories, posts: posts, cache: c}
}

// ListActive 公开列表走缓存；写路径统一失效
func (s *CategoryService) ListActive(ctx context.Context) ([]domain.Category, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, categoryListKey, time.Minute,
		func(ctx context.Context) ([]domain.Category, error) {
			return s.categories.ListActive(ctx)
		})
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Active      *bool  `json:"active"`
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)

	errs := fieldErrors{}
	if !lenBetween(in.Name, 2, 50) {
		errs.add("name", "name must be 2-50 characters")
	}
	if in.Color == "" {
		in.Color = domain.DefaultCategoryColor
	} else if !hexColorRx.MatchString(in.Color) {
		errs.add("color", "color must be a #RRGGBB hex value")
	}
	if !errs.empty() {
		return nil, domain.Validation("validation failed", errs)
	}

	c := &domain.Category{
		ID:          utils.NewID(),
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: strings.TrimSpace(in.Description),
		Color:       in.Color,
		Active:      true,
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := s.categories.Create(ctx, c); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.Conflict("category name already exists")
		}
		return nil, err
	}
	s.invalidate(ctx, c.ID)
	return c, nil
}

// CategoryUpdateInput 指针字段：nil 表示不改，空串是合法的新值（如清空描述）
type CategoryUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Active      *bool   `json:"active"`
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryUpdateInput) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("category not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !lenBetween(name, 2, 50) {
			return nil, domain.Validation("validation failed", fieldErrors{"name": "name must be 2-50 characters"})
		}
		if name != c.Name {
			// 名称变了 slug 跟着重生成（分类不同于文章，slug 不承诺稳定）
			c.Name = name
			c.Slug = slug.Make(name)
		}
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if color == "" {
			color = domain.DefaultCategoryColor
		} else if !hexColorRx.MatchString(color) {
			return nil, domain.Validation("validation failed", fieldErrors{"color": "color must be a #RRGGBB hex value"})
		}
		c.Color = color
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	if err := s.categories.Update(ctx, c); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.Conflict("category name already exists")
		}
		return nil, err
	}
	s.invalidate(ctx, c.ID)
	return c, nil
}

// Delete 有文章引用时拒绝（restrict 策略）
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	n, err := s.posts.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("category is referenced by existing posts")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context, id string) {
	s.cache.Del(ctx, categoryListKey, "category:"+id)
}
