package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// internalError は内部エラーを汎用メッセージの500に変換する
// 元のエラーはSetInternalで保持され、エラーハンドラーのログにのみ残る
func internalError(err error, message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(err)
}
