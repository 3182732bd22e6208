package handler

import (
	"github.com/gin-gonic/gin"

	"go-blog-api/internal/domain"
	"go-blog-api/internal/service"
)

type PostHandler struct {
	Base
	svc *service.PostService
}

func NewPostHandler(b Base, svc *service.PostService) *PostHandler {
	return &PostHandler{Base: b, svc: svc}
}

func (h *PostHandler) List(c *gin.Context) {
	var f domain.PostFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.badJSON(c, err)
		return
	}
	page, err := h.svc.List(c.Request.Context(), f, identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, page)
}

// Get :id 既接受主键也接受 slug；成功读取带 view+1 副作用
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"post": p})
}

func (h *PostHandler) Create(c *gin.Context) {
	var in service.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), identity(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, gin.H{"post": p})
}

func (h *PostHandler) Update(c *gin.Context) {
	var in service.PostUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), identity(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"post": p})
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.message(c, "post deleted")
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	out, err := h.svc.ToggleLike(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, out)
}

type commentIn struct {
	Content string `json:"content"`
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var in commentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	cm, err := h.svc.AddComment(c.Request.Context(), identity(c), c.Param("id"), in.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, gin.H{"comment": cm})
}
