package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/internal/transport/http/handler"
	mdw "go-blog-api/internal/transport/http/middleware"
)

// API 用户端引擎的依赖
type API struct {
	Log        *zap.Logger
	JWTer      *auth.JWTer
	Users      domain.UserRepository
	Auth       *handler.AuthHandler
	Posts      *handler.PostHandler
	Categories *handler.CategoryHandler
}

func NewAPIEngine(a API) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(a.Log),
		cors.Default(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	requireAuth := mdw.RequireAuth(a.JWTer, a.Users)
	optionalAuth := mdw.OptionalAuth(a.JWTer, a.Users)

	// 认证
	api.POST("/auth/register", a.Auth.Register)
	api.POST("/auth/login", a.Auth.Login)
	api.GET("/auth/me", requireAuth, a.Auth.Me)
	api.PUT("/auth/profile", requireAuth, a.Auth.UpdateProfile)
	api.PUT("/auth/password", requireAuth, a.Auth.ChangePassword)

	// 文章（公开读走 optionalAuth：登录用户能看到自己的草稿和 isLiked）
	api.GET("/posts", optionalAuth, a.Posts.List)
	api.GET("/posts/:id", optionalAuth, a.Posts.Get)
	api.POST("/posts", requireAuth, a.Posts.Create)
	api.PUT("/posts/:id", requireAuth, a.Posts.Update)
	api.DELETE("/posts/:id", requireAuth, a.Posts.Delete)
	api.POST("/posts/:id/like", requireAuth, a.Posts.ToggleLike)
	api.POST("/posts/:id/comments", requireAuth, a.Posts.AddComment)

	// 分类
	api.GET("/categories", a.Categories.List)

	return r
}
