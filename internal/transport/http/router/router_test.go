package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/internal/repo"
	"go-blog-api/internal/service"
	"go-blog-api/internal/transport/http/handler"
	"go-blog-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	api   *gin.Engine
	admin *gin.Engine
	db    *gorm.DB
	jwter *auth.JWTer
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Category{}, &domain.Post{},
		&domain.PostLike{}, &domain.Comment{},
	))

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "go-blog-api", TTL: time.Hour}
	log := zap.NewNop()

	users := repo.NewUserRepo(db)
	posts := repo.NewPostRepo(db)
	categories := repo.NewCategoryRepo(db)

	base := handler.Base{Log: log, Debug: true}
	authSvc := service.NewAuthService(users, jwter)
	postSvc := service.NewPostService(posts, categories, nil)
	catSvc := service.NewCategoryService(categories, posts, nil)
	userSvc := service.NewUserService(users)

	api := NewAPIEngine(API{
		Log:        log,
		JWTer:      jwter,
		Users:      users,
		Auth:       handler.NewAuthHandler(base, authSvc),
		Posts:      handler.NewPostHandler(base, postSvc),
		Categories: handler.NewCategoryHandler(base, catSvc),
	})
	admin := NewAdminEngine(Admin{
		Log:   log,
		JWTer: jwter,
		Users: users,
		H:     handler.NewAdminHandler(base, userSvc, catSvc),
	})
	return &testEnv{api: api, admin: admin, db: db, jwter: jwter}
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func doJSON(t *testing.T, e *gin.Engine, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

// register 注册并返回 token 和 user id
func (te *testEnv) register(t *testing.T, username string) (string, string) {
	t.Helper()
	code, env := doJSON(t, te.api, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}

// makeAdmin 直接落库一个 admin 并签 token
func (te *testEnv) makeAdmin(t *testing.T) string {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     "root",
		Email:        "root@example.com",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	require.NoError(t, te.db.Create(u).Error)
	token, err := te.jwter.Issue(u.Identity())
	require.NoError(t, err)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	te := setupEnv(t)

	code, env := doJSON(t, te.api, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	// 响应里绝不出现口令散列
	assert.NotContains(t, string(env.Data), "secret123")
	assert.NotContains(t, strings.ToLower(string(env.Data)), "password")

	// 字段错误按字段名返回
	code, env = doJSON(t, te.api, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "x",
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "username")
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")

	// 重复邮箱 409
	code, _ = doJSON(t, te.api, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)

	// 错密码与不存在的账号同一个 401 文案路径
	code, env = doJSON(t, te.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, env = doJSON(t, te.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	// me 需要 token
	code, _ = doJSON(t, te.api, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, env = doJSON(t, te.api, http.MethodGet, "/api/v1/auth/me", data.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "alice")
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	te := setupEnv(t)
	authorTok, _ := te.register(t, "alice")
	bobTok, _ := te.register(t, "bob")
	adminTok := te.makeAdmin(t)

	// 匿名不能发文
	code, _ := doJSON(t, te.api, http.MethodPost, "/api/v1/posts", "", gin.H{
		"title": "Launch Notes", "content": "long enough content here",
	})
	require.Equal(t, http.StatusUnauthorized, code)

	code, env := doJSON(t, te.api, http.MethodPost, "/api/v1/posts", authorTok, gin.H{
		"title": "Launch Notes", "content": "long enough content here",
	})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Post struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "launch-notes", created.Post.Slug)

	// 草稿：匿名 404，作者可见
	code, _ = doJSON(t, te.api, http.MethodGet, "/api/v1/posts/launch-notes", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doJSON(t, te.api, http.MethodGet, "/api/v1/posts/launch-notes", authorTok, nil)
	assert.Equal(t, http.StatusOK, code)

	// 非作者改不了，admin 可以
	code, _ = doJSON(t, te.api, http.MethodPut, "/api/v1/posts/"+created.Post.ID, bobTok, gin.H{
		"status": "published",
	})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = doJSON(t, te.api, http.MethodPut, "/api/v1/posts/"+created.Post.ID, adminTok, gin.H{
		"status": "published",
	})
	require.Equal(t, http.StatusOK, code)

	// 发布后匿名可读，slug 定位，阅读计数开始累加
	code, env = doJSON(t, te.api, http.MethodGet, "/api/v1/posts/launch-notes", "", nil)
	require.Equal(t, http.StatusOK, code)
	var got struct {
		Post struct {
			ViewCount   int    `json:"views"`
			PublishedAt string `json:"publishedAt"`
		} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.NotEmpty(t, got.Post.PublishedAt)
	assert.GreaterOrEqual(t, got.Post.ViewCount, 2) // 作者读过一次

	// 点赞两次回到未赞
	code, env = doJSON(t, te.api, http.MethodPost, "/api/v1/posts/"+created.Post.ID+"/like", bobTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"isLiked":true`)
	code, env = doJSON(t, te.api, http.MethodPost, "/api/v1/posts/"+created.Post.ID+"/like", bobTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"isLiked":false`)

	// 删除只有作者（或 admin）可以
	code, _ = doJSON(t, te.api, http.MethodDelete, "/api/v1/posts/"+created.Post.ID, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = doJSON(t, te.api, http.MethodDelete, "/api/v1/posts/"+created.Post.ID, authorTok, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, te.api, http.MethodGet, "/api/v1/posts/"+created.Post.ID, authorTok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCommentBoundsOverHTTP(t *testing.T) {
	te := setupEnv(t)
	authorTok, _ := te.register(t, "alice")
	bobTok, _ := te.register(t, "bob")

	code, env := doJSON(t, te.api, http.MethodPost, "/api/v1/posts", authorTok, gin.H{
		"title": "Open Thread", "content": "long enough content here", "status": "published",
	})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Post struct {
			ID string `json:"id"`
		} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/v1/posts/" + created.Post.ID + "/comments"

	code, _ = doJSON(t, te.api, http.MethodPost, path, bobTok, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, te.api, http.MethodPost, path, bobTok, gin.H{"content": strings.Repeat("a", 500)})
	assert.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, te.api, http.MethodPost, path, bobTok, gin.H{"content": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, te.api, http.MethodPost, path, "", gin.H{"content": "anonymous?"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminGuards(t *testing.T) {
	te := setupEnv(t)
	userTok, userID := te.register(t, "alice")
	adminTok := te.makeAdmin(t)

	// 无 token / 普通用户 / admin
	code, _ := doJSON(t, te.admin, http.MethodGet, "/admin/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = doJSON(t, te.admin, http.MethodGet, "/admin/v1/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, env := doJSON(t, te.admin, http.MethodGet, "/admin/v1/users", adminTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	// 角色必须在封闭枚举里
	code, _ = doJSON(t, te.admin, http.MethodPut, fmt.Sprintf("/admin/v1/users/%s/role", userID), adminTok, gin.H{
		"role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, te.admin, http.MethodPut, fmt.Sprintf("/admin/v1/users/%s/role", userID), adminTok, gin.H{
		"role": "admin",
	})
	assert.Equal(t, http.StatusOK, code)

	// 停用账号后 token 立即失效
	code, _ = doJSON(t, te.admin, http.MethodPut, fmt.Sprintf("/admin/v1/users/%s/active", userID), adminTok, gin.H{
		"active": false,
	})
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, te.api, http.MethodGet, "/api/v1/auth/me", userTok, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminCategoryCRUD(t *testing.T) {
	te := setupEnv(t)
	adminTok := te.makeAdmin(t)

	code, env := doJSON(t, te.admin, http.MethodPost, "/admin/v1/categories", adminTok, gin.H{
		"name": "Tech",
	})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Category struct {
			ID    string `json:"id"`
			Slug  string `json:"slug"`
			Color string `json:"color"`
		} `json:"category"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "tech", created.Category.Slug)
	assert.Equal(t, domain.DefaultCategoryColor, created.Category.Color)

	// 改名 slug 跟着走
	code, env = doJSON(t, te.admin, http.MethodPut, "/admin/v1/categories/"+created.Category.ID, adminTok, gin.H{
		"name": "Tech Talk",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"tech-talk"`)

	// 公开列表能看到
	code, env = doJSON(t, te.api, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Tech")

	// 被文章引用时拒删
	authorTok, _ := te.register(t, "alice")
	code, _ = doJSON(t, te.api, http.MethodPost, "/api/v1/posts", authorTok, gin.H{
		"title": "Tagged Post", "content": "long enough content here", "categoryId": created.Category.ID,
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, te.admin, http.MethodDelete, "/admin/v1/categories/"+created.Category.ID, adminTok, nil)
	assert.Equal(t, http.StatusConflict, code)
}
