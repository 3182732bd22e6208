package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-blog-api/internal/domain"
)

func testJWTer(ttl time.Duration) *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: ttl}
}

func testIdentity() *domain.Identity {
	return &domain.Identity{
		ID:       "u-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleAdmin,
	}
}

func TestIssueParse_Roundtrip(t *testing.T) {
	j := testJWTer(time.Hour)

	tok, err := j.Issue(testIdentity())
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", claims.UID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "u-1", claims.Identity().ID)
}

func TestParse_Expired(t *testing.T) {
	j := testJWTer(-time.Minute)

	tok, err := j.Issue(testIdentity())
	assert.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_Tampered(t *testing.T) {
	j := testJWTer(time.Hour)
	tok, _ := j.Issue(testIdentity())

	// 篡改载荷段
	parts := strings.Split(tok, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	_, err := j.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	j := testJWTer(time.Hour)
	tok, _ := j.Issue(testIdentity())

	other := &JWTer{Secret: []byte("other-secret"), Issuer: "test", TTL: time.Hour}
	_, err := other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	j := testJWTer(time.Hour)
	_, err := j.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractToken("Bearer abc"))
	assert.Equal(t, "", ExtractToken(""))
	assert.Equal(t, "", ExtractToken("abc"))
	assert.Equal(t, "", ExtractToken("Basic abc"))
	assert.Equal(t, "", ExtractToken("bearer abc"))
}
