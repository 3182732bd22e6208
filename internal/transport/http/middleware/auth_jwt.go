package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	resp "go-blog-api/internal/transport/http/response"
)

const identityKey = "identity"

var (
	errMissingToken = errors.New("missing token")
	errInactive     = errors.New("account is deactivated")
)

// RequireAuth 解析并校验 Bearer token，加载账号；失败一律 401
func RequireAuth(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolveIdentity(c, j, users)
		if err != nil {
			// 存储层故障（Unavailable/Internal 等业务错误）不能伪装成凭证问题
			var de *domain.Error
			if errors.As(err, &de) {
				status, body := resp.FromError(err, false)
				c.AbortWithStatusJSON(status, body)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail(authFailMsg(err)))
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuth 同样的解析流程，但任何失败都吞掉，按匿名继续
func OptionalAuth(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := resolveIdentity(c, j, users); err == nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// RequireRole 已鉴权前提下限定角色；不在集合内 403
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail("unauthorized"))
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, resp.Fail("forbidden"))
	}
}

// Identity 取中间件挂上的请求身份；匿名时为 nil
func Identity(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}

func resolveIdentity(c *gin.Context, j *auth.JWTer, users domain.UserRepository) (*domain.Identity, error) {
	tok := auth.ExtractToken(c.GetHeader("Authorization"))
	if tok == "" {
		return nil, errMissingToken
	}
	claims, err := j.Parse(tok)
	if err != nil {
		return nil, err
	}
	u, err := users.FindByID(c.Request.Context(), claims.UID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active {
		return nil, errInactive
	}
	// 角色以库里为准，token 里的可能过期
	return u.Identity(), nil
}

func authFailMsg(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid token"
	case errors.Is(err, errMissingToken):
		return "missing token"
	case errors.Is(err, errInactive):
		return "account is deactivated"
	default:
		return "unauthorized"
	}
}
