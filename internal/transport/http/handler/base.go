package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/domain"
	mdw "go-blog-api/internal/transport/http/middleware"
	resp "go-blog-api/internal/transport/http/response"
)

// Base 注入式依赖，不走包级单例
type Base struct {
	Log   *zap.Logger
	Debug bool // 非生产环境回显内部错误细节
}

func (b Base) fail(c *gin.Context, err error) {
	status, body := resp.FromError(err, b.Debug)
	if status >= http.StatusInternalServerError {
		b.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, body)
}

func (b Base) badJSON(c *gin.Context, err error) {
	msg := "invalid request body"
	if b.Debug {
		msg = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp.Fail(msg))
}

func (b Base) ok(c *gin.Context, data any)      { c.JSON(http.StatusOK, resp.OK(data)) }
func (b Base) created(c *gin.Context, data any) { c.JSON(http.StatusCreated, resp.OK(data)) }
func (b Base) message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, resp.Message(msg))
}

func identity(c *gin.Context) *domain.Identity {
	return mdw.Identity(c)
}
