package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-api/internal/domain"
	"go-blog-api/internal/repo"
)

func TestCreateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repo.NewCategoryRepo(db), repo.NewPostRepo(db), nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, CategoryInput{Name: "  Web Development  "})
	require.NoError(t, err)
	assert.Equal(t, "Web Development", c.Name)
	assert.Equal(t, "web-development", c.Slug)
	assert.Equal(t, domain.DefaultCategoryColor, c.Color)
	assert.True(t, c.Active)

	_, err = svc.Create(ctx, CategoryInput{Name: "x"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.Create(ctx, CategoryInput{Name: "Looks Fine", Color: "blue"})
	require.Error(t, err)
	assert.Contains(t, domain.FieldsOf(err), "color")

	// 名字唯一
	_, err = svc.Create(ctx, CategoryInput{Name: "Web Development"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestUpdateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repo.NewCategoryRepo(db), repo.NewPostRepo(db), nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, CategoryInput{Name: "Old Name", Description: "about old things"})
	require.NoError(t, err)

	name, color, off := "New Name", "#FF0000", false
	up, err := svc.Update(ctx, c.ID, CategoryUpdateInput{Name: &name, Color: &color, Active: &off})
	require.NoError(t, err)
	assert.Equal(t, "New Name", up.Name)
	assert.Equal(t, "new-name", up.Slug)
	assert.Equal(t, "#FF0000", up.Color)
	assert.False(t, up.Active)
	// 没给的字段不动
	assert.Equal(t, "about old things", up.Description)

	// 空串是合法新值：描述可以清掉
	empty := ""
	up, err = svc.Update(ctx, c.ID, CategoryUpdateInput{Description: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", up.Description)
	assert.Equal(t, "New Name", up.Name)

	bad := "x"
	_, err = svc.Update(ctx, c.ID, CategoryUpdateInput{Name: &bad})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	name2 := "Whatever"
	_, err = svc.Update(ctx, "missing", CategoryUpdateInput{Name: &name2})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteCategory_RestrictWhenReferenced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repo.NewCategoryRepo(db), repo.NewPostRepo(db), nil)
	posts := newPostService(db)
	author := createTestUser(t, db, "alice", domain.RoleUser)
	ctx := context.Background()

	c, err := svc.Create(ctx, CategoryInput{Name: "Referenced"})
	require.NoError(t, err)
	_, err = posts.Create(ctx, author.Identity(), PostInput{
		Title:      "Post In Category",
		Content:    "some reasonably long content",
		CategoryID: c.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindConflict, domain.KindOf(svc.Delete(ctx, c.ID)))

	empty, err := svc.Create(ctx, CategoryInput{Name: "Unreferenced"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, empty.ID))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(svc.Delete(ctx, empty.ID)))
}

func TestListActiveCategories(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repo.NewCategoryRepo(db), repo.NewPostRepo(db), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CategoryInput{Name: "Visible"})
	require.NoError(t, err)
	off := false
	_, err = svc.Create(ctx, CategoryInput{Name: "Hidden", Active: &off})
	require.NoError(t, err)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Visible", list[0].Name)
}
