package middleware

import (
	"net/http"
	"strings"

	useruc "rentdesk-backend/internal/usecase/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ctxUserID   = "auth.user_id"
	ctxUserRole = "auth.user_role"
)

// JWTAuth resolves the bearer token into the current user identity and stores
// it on the request context. Tokens are HS256, issued by the user usecase.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if !strings.HasPrefix(raw, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			raw = strings.TrimPrefix(raw, "Bearer ")

			claims := &useruc.Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxUserRole, claims.Role)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" outside JWTAuth.
func UserID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func UserRole(c echo.Context) string {
	if v, ok := c.Get(ctxUserRole).(string); ok {
		return v
	}
	return ""
}
