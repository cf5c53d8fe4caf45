package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

// JWTKey signs and verifies HS256 tokens. The boundary only needs
// username+role claims; token issuance lives with the identity provider.
var JWTKey = []byte(envOr("JWT_KEY", "secret"))

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

type ctxKey int

const (
	ctxKeyUserName ctxKey = iota + 1
	ctxKeyUserRole
)

func SetAuthContext(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserName, username)
	return context.WithValue(ctx, ctxKeyUserRole, role)
}

func UserName(ctx context.Context) (string, error) {
	username, ok := ctx.Value(ctxKeyUserName).(string)
	if !ok || username == "" {
		return "", errors.New("no username in context")
	}
	return username, nil
}

func UserRole(ctx context.Context) (string, error) {
	role, ok := ctx.Value(ctxKeyUserRole).(string)
	if !ok || role == "" {
		return "", errors.New("no user role in context")
	}
	return role, nil
}
