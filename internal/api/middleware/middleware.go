package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware は全ルート共通のミドルウェアを設定する
// 順序に意味がある: RequestIDを最初に発番し、ログとリカバリーがそれを利用する
func SetupMiddleware(e *echo.Echo) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())

	// 予約リクエストは小さいJSONのみなので巨大ボディは弾く
	e.Use(middleware.BodyLimit("1M"))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
}
