package domain

// Role 闭合角色枚举，避免裸字符串比较导致拼写错误静默放行
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Identity 鉴权通过后的请求身份（由中间件挂到 context）
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsOwner 作者本人或 admin 才有改写资格
func IsOwner(id *Identity, ownerID string) bool {
	if id == nil {
		return false
	}
	return id.Role.IsAdmin() || id.ID == ownerID
}
