package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/promotion"
)

type PromotionHandler struct {
	service PromotionServiceInterface
}

func NewPromotionHandler(s PromotionServiceInterface) *PromotionHandler {
	return &PromotionHandler{service: s}
}

type CreatePromotionRequest struct {
	Code            string    `json:"code" validate:"required"`
	DiscountPercent int       `json:"discount_percent" validate:"required,min=1,max=100"`
	ValidUntil      time.Time `json:"valid_until" validate:"required"`
}

type UpdatePromotionRequest struct {
	Code            string    `json:"code" validate:"required"`
	DiscountPercent int       `json:"discount_percent" validate:"required,min=1,max=100"`
	ValidUntil      time.Time `json:"valid_until" validate:"required"`
	IsActive        bool      `json:"is_active"`
}

type PromotionResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	ValidUntil      time.Time `json:"valid_until"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func toPromotionResponse(p *promotion.Promotion) PromotionResponse {
	return PromotionResponse{
		ID: p.ID, Code: p.Code, DiscountPercent: p.DiscountPercent,
		ValidUntil: p.ValidUntil, IsActive: p.IsActive, CreatedAt: p.CreatedAt,
	}
}

// Create godoc
// @Summary プロモーションを作成
// @Description プロモーションコードを作成します（管理者のみ）
// @Tags promotions
// @Accept json
// @Produce json
// @Param request body CreatePromotionRequest true "プロモーション情報"
// @Success 201 {object} PromotionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "コード重複"
// @Router /admin/promotions [post]
func (h *PromotionHandler) Create(c echo.Context) error {
	var req CreatePromotionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.CreatePromotion(c.Request().Context(), application.CreatePromotionInput{
		Code: req.Code, DiscountPercent: req.DiscountPercent, ValidUntil: req.ValidUntil,
	})
	if err != nil {
		if errors.Is(err, promotion.ErrCodeAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toPromotionResponse(p))
}

// List godoc
// @Summary プロモーション一覧を取得
// @Description プロモーション一覧を取得します（管理者のみ）
// @Tags promotions
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} PromotionResponse
// @Router /admin/promotions [get]
func (h *PromotionHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	promotions, err := h.service.ListPromotions(c.Request().Context(), limit, offset)
	if err != nil {
		return internalError(err, "プロモーション一覧取得に失敗しました")
	}
	resp := make([]PromotionResponse, len(promotions))
	for i, p := range promotions {
		resp[i] = toPromotionResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary プロモーションを更新
// @Description プロモーションを更新します（管理者のみ）
// @Tags promotions
// @Accept json
// @Produce json
// @Param id path string true "プロモーションID"
// @Param request body UpdatePromotionRequest true "プロモーション情報"
// @Success 200 {object} PromotionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/promotions/{id} [put]
func (h *PromotionHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req UpdatePromotionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.UpdatePromotion(c.Request().Context(), application.UpdatePromotionInput{
		ID: id, Code: req.Code, DiscountPercent: req.DiscountPercent,
		ValidUntil: req.ValidUntil, IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, promotion.ErrPromotionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, promotion.ErrCodeAlreadyExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toPromotionResponse(p))
}

// Delete godoc
// @Summary プロモーションを削除
// @Description プロモーションを削除します（管理者のみ）
// @Tags promotions
// @Produce json
// @Param id path string true "プロモーションID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.DeletePromotion(c.Request().Context(), id); err != nil {
		if errors.Is(err, promotion.ErrPromotionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "プロモーション削除に失敗しました")
	}
	return c.NoContent(http.StatusNoContent)
}

// ValidateCode godoc
// @Summary プロモーションコードを検証
// @Description コードの有効性と割引率を返します（表示用の参考値）
// @Tags promotions
// @Produce json
// @Param code path string true "プロモーションコード"
// @Success 200 {object} PromotionResponse
// @Failure 404 {object} map[string]string "コードが存在しないか無効"
// @Router /promotions/{code}/validate [get]
func (h *PromotionHandler) ValidateCode(c echo.Context) error {
	code := c.Param("code")
	p, err := h.service.ValidateCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, promotion.ErrPromotionNotFound) || errors.Is(err, promotion.ErrPromotionInvalid) {
			return echo.NewHTTPError(http.StatusNotFound, "有効なプロモーションコードではありません")
		}
		return internalError(err, "プロモーションコード検証に失敗しました")
	}
	return c.JSON(http.StatusOK, toPromotionResponse(p))
}
