package repo

import (
	"context"
	"errors"
	"strings"

	"go-blog-api/internal/domain"
)

// translate gorm/driver 错误 → 业务错误；超时与断连归为 Unavailable（503）
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Unavailable("storage unavailable", err)
	}
	if isDupKey(err) {
		return domain.Conflict("duplicate value violates a unique constraint")
	}
	return domain.Internal(op+" failed", err)
}

// orderDir 只放行 asc/desc，排序方向不允许拼接任意输入
func orderDir(s string) string {
	if s == "asc" {
		return "asc"
	}
	return "desc"
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
