package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type BookingItemRequest struct {
	TicketTypeID string `json:"ticketTypeId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
}

// CreateBookingRequest は予約作成リクエスト
// TotalAmountはクライアント表示値で、受け取るがサーバー側の計算には使わない
type CreateBookingRequest struct {
	EventID     string               `json:"eventId" validate:"required"`
	Items       []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount int                  `json:"totalAmount"`
}

type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId"`
}

type BookingItemResponse struct {
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int    `json:"quantity"`
}

type BookingResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Status      string                `json:"status"`
	TotalAmount int                   `json:"total_amount"`
	Items       []BookingItemResponse `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	items := make([]BookingItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BookingItemResponse{TicketTypeID: item.TicketTypeID, Quantity: item.Quantity}
	}
	return BookingResponse{
		ID: b.ID, UserID: b.UserID, Status: string(b.Status),
		TotalAmount: b.TotalAmount, Items: items, CreatedAt: b.CreatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 在庫確認・合計計算・在庫減算を原子的に行い、予約を確定します
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} CreateBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "チケット区分が存在しない"
// @Failure 409 {object} map[string]string "在庫不足または競合"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]application.LineItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = application.LineItemInput{TicketTypeID: item.TicketTypeID, Quantity: item.Quantity}
	}

	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID:  userID,
		EventID: req.EventID,
		Items:   items,
	})
	if err != nil {
		return bookingErrorToHTTP(err)
	}

	return c.JSON(http.StatusCreated, CreateBookingResponse{Success: true, BookingID: b.ID})
}

// bookingErrorToHTTP は予約エラーをHTTPステータスに対応付ける
func bookingErrorToHTTP(err error) *echo.HTTPError {
	var insufficientErr *ticket.InsufficientStockError
	switch {
	case errors.As(err, &insufficientErr):
		return echo.NewHTTPError(http.StatusConflict, insufficientErr.Error())
	case errors.Is(err, ticket.ErrTicketTypeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, transaction.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "混み合っています。時間をおいて再度お試しください")
	case errors.Is(err, booking.ErrUserIDRequired),
		errors.Is(err, booking.ErrItemsRequired),
		errors.Is(err, booking.ErrTicketTypeIDRequired),
		errors.Is(err, booking.ErrInvalidItemQuantity):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err, "予約処理に失敗しました")
	}
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します（本人のもののみ）
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	id := c.Param("id")
	b, err := h.service.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "予約取得に失敗しました")
	}
	// 他人の予約は存在自体を伏せる
	if b.UserID != userID {
		return echo.NewHTTPError(http.StatusNotFound, booking.ErrBookingNotFound.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetUserBookings godoc
// @Summary 自分の予約一覧を取得
// @Description ログインユーザーの予約一覧を取得します
// @Tags bookings
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	bookings, err := h.service.GetUserBookings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return internalError(err, "予約一覧取得に失敗しました")
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}
