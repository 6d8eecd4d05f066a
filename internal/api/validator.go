package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator はgo-playground/validatorをEchoに組み込むアダプター
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
func NewValidator() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate はリクエスト構造体のvalidateタグを検証する
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
