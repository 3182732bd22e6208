package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-blog-api/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

var _ domain.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return translate("create category", r.db.WithContext(ctx).Create(c).Error)
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find category", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return translate("update category", r.db.WithContext(ctx).Save(c).Error)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	if res.Error != nil {
		return translate("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("category not found")
	}
	return nil
}

func (r *CategoryRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	var cs []domain.Category
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name asc").
		Find(&cs).Error
	if err != nil {
		return nil, translate("list categories", err)
	}
	return cs, nil
}
