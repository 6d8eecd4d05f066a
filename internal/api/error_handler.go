package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CustomHTTPErrorHandler はEchoの既定エラーハンドラーを置き換える
// 内部エラーの詳細はログにのみ残し、呼び出し元には汎用メッセージを返す
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "内部サーバーエラー"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
