package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/bookgrove/catalog-service/pkg/auth"
	md "github.com/bookgrove/catalog-service/pkg/middleware"
)

func signToken(t *testing.T, username, role string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Profile: auth.Profile{Username: username, Role: role},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.JWTKey)
	require.NoError(t, err)
	return token
}

func whoami(c echo.Context) error {
	name, err := auth.UserName(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusOK, name)
}

func TestAuthentication(t *testing.T) {
	e := echo.New()
	e.GET("/whoami", whoami, md.Authentication)

	t.Run("bearer token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+signToken(t, "alice", auth.RoleUser))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "alice", w.Body.String())
	})

	t.Run("gateway headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "bob")
		r.Header.Set(auth.XUserRoleHeader, auth.RoleUser)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "bob", w.Body.String())
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer not.a.token")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("nothing at all", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.DELETE("/secret", ok, md.Authentication, md.RequireAdmin)

	t.Run("admin passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/secret", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+signToken(t, "root", auth.RoleAdmin))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/secret", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+signToken(t, "alice", auth.RoleUser))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
