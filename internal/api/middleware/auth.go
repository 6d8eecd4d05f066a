package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// コンテキストキー
const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
)

// UserClaims はアクセストークンのクレーム
type UserClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth はBearerトークンを検証し、ユーザーIDとロールをコンテキストに設定する
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが必要です")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンの形式が不正です")
			}

			claims := &UserClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				// HMAC署名のみ許可
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが無効です")
			}

			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが無効です")
			}

			c.Set(ContextUserIDKey, claims.Subject)
			c.Set(ContextRoleKey, claims.Role)

			return next(c)
		}
	}
}

// RequireAdmin は管理者ロールを要求するミドルウェア
// JWTAuthの後に適用すること
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRoleKey).(string)
			if role != "ADMIN" {
				return echo.NewHTTPError(http.StatusForbidden, "管理者権限が必要です")
			}
			return next(c)
		}
	}
}

// UserIDFromContext はコンテキストから認証済みユーザーIDを取得する
func UserIDFromContext(c echo.Context) (string, bool) {
	userID, ok := c.Get(ContextUserIDKey).(string)
	return userID, ok && userID != ""
}
