package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MetricsBasicAuth は/metricsエンドポイント用のBasic認証ミドルウェア
func MetricsBasicAuth(username, password string) echo.MiddlewareFunc {
	return middleware.BasicAuth(func(u, p string, c echo.Context) (bool, error) {
		userMatch := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
		return userMatch && passMatch, nil
	})
}
