package domain

import (
	"context"
	"time"
)

const DefaultCategoryColor = "#3B82F6"

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:60;not null" json:"slug"`
	Description string    `gorm:"size:255" json:"description"`
	Color       string    `gorm:"size:7;not null;default:#3B82F6" json:"color"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]Category, error)
}
