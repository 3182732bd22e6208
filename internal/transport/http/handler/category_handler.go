package handler

import (
	"github.com/gin-gonic/gin"

	"go-blog-api/internal/service"
)

type CategoryHandler struct {
	Base
	svc *service.CategoryService
}

func NewCategoryHandler(b Base, svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{Base: b, svc: svc}
}

func (h *CategoryHandler) List(c *gin.Context) {
	cs, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"categories": cs})
}
