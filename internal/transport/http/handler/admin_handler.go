package handler

import (
	"github.com/gin-gonic/gin"

	"go-blog-api/internal/domain"
	"go-blog-api/internal/service"
)

// AdminHandler 后台接口；路由层已套 RequireAuth + RequireRole(admin)
type AdminHandler struct {
	Base
	users      *service.UserService
	categories *service.CategoryService
}

func NewAdminHandler(b Base, users *service.UserService, categories *service.CategoryService) *AdminHandler {
	return &AdminHandler{Base: b, users: users, categories: categories}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var f domain.UserFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.badJSON(c, err)
		return
	}
	page, err := h.users.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, page)
}

type roleIn struct {
	Role domain.Role `json:"role"`
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	var in roleIn
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	u, err := h.users.SetRole(c.Request.Context(), c.Param("id"), in.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"user": u})
}

type activeIn struct {
	Active *bool `json:"active"`
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	var in activeIn
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	if in.Active == nil {
		h.fail(c, domain.Validation("validation failed", map[string]string{"active": "active is required"}))
		return
	}
	u, err := h.users.SetActive(c.Request.Context(), c.Param("id"), *in.Active)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"user": u})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, gin.H{"category": cat})
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var in service.CategoryUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"category": cat})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.message(c, "category deleted")
}
