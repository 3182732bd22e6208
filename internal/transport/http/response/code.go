package response

import (
	"net/http"

	"go-blog-api/internal/domain"
)

// kind → HTTP 状态码（直接基于 HTTP 语义）
var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindUnavailable:  http.StatusServiceUnavailable,
	domain.KindInternal:     http.StatusInternalServerError,
}

// FromError 业务错误 → (status, Body)；debug=false 时内部错误不回显细节
func FromError(err error, debug bool) (int, Body) {
	kind := domain.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if (kind == domain.KindInternal || kind == domain.KindUnavailable) && !debug {
		msg = http.StatusText(status)
	}
	if fields := domain.FieldsOf(err); len(fields) > 0 {
		return status, FailFields(msg, fields)
	}
	return status, Fail(msg)
}
