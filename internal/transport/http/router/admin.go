package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/internal/transport/http/handler"
	mdw "go-blog-api/internal/transport/http/middleware"
)

// Admin 管理端引擎的依赖
type Admin struct {
	Log   *zap.Logger
	JWTer *auth.JWTer
	Users domain.UserRepository
	H     *handler.AdminHandler
}

func NewAdminEngine(a Admin) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100),
		ginzap.Ginzap(a.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(a.Log, true),
		mdw.Metrics(),
		cors.Default(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.RequireAuth(a.JWTer, a.Users), mdw.RequireRole(domain.RoleAdmin))

	admin.GET("/users", a.H.ListUsers)
	admin.PUT("/users/:id/role", a.H.SetUserRole)
	admin.PUT("/users/:id/active", a.H.SetUserActive)

	admin.POST("/categories", a.H.CreateCategory)
	admin.PUT("/categories/:id", a.H.UpdateCategory)
	admin.DELETE("/categories/:id", a.H.DeleteCategory)

	return r
}
