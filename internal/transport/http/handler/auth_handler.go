package handler

import (
	"github.com/gin-gonic/gin"

	"go-blog-api/internal/service"
)

type AuthHandler struct {
	Base
	svc *service.AuthService
}

func NewAuthHandler(b Base, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Base: b, svc: svc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	out, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, out)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	out, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, out)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"user": u})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), identity(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"user": u})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in service.PasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badJSON(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), identity(c), in); err != nil {
		h.fail(c, err)
		return
	}
	h.message(c, "password updated")
}
