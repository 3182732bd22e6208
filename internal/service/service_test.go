package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/internal/repo"
	"go-blog-api/pkg/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Category{}, &domain.Post{},
		&domain.PostLike{}, &domain.Comment{},
	))
	return db
}

func testJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
}

func newPostService(db *gorm.DB) *PostService {
	return NewPostService(repo.NewPostRepo(db), repo.NewCategoryRepo(db), nil)
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{
		ID:     utils.NewID(),
		Name:   name,
		Slug:   name,
		Color:  domain.DefaultCategoryColor,
		Active: true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createTestPost(t *testing.T, db *gorm.DB, svc *PostService, author *domain.User, title string, status string) *domain.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), author.Identity(), PostInput{
		Title:   title,
		Content: "some reasonably long content",
		Status:  status,
	})
	require.NoError(t, err)
	return p
}
