package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/transaction"
)

// MockBookingService はBookingServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func newBookingContext(e *echo.Echo, body string, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.ContextUserIDKey, userID)
	}
	return c, rec
}

func TestBookingHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に予約を作成できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.MatchedBy(func(input application.CreateBookingInput) bool {
			return input.UserID == "user-123" &&
				input.EventID == "event-123" &&
				len(input.Items) == 1 &&
				input.Items[0].Quantity == 2
		})).Return(&booking.Booking{
			ID:          "booking-123",
			UserID:      "user-123",
			Status:      booking.StatusConfirmed,
			TotalAmount: 10000,
			CreatedAt:   time.Now(),
		}, nil)

		handler := NewBookingHandler(mockService)

		reqBody := `{
			"eventId": "event-123",
			"items": [{"ticketTypeId": "tt-1", "quantity": 2}],
			"totalAmount": 10000
		}`
		c, rec := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp CreateBookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "booking-123", resp.BookingID)
	})

	// クライアントが提示した合計金額は無視される
	t.Run("改ざんされた合計金額は予約処理に渡らない", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("application.CreateBookingInput")).
			Return(&booking.Booking{ID: "booking-456", UserID: "user-123", TotalAmount: 10000}, nil)

		handler := NewBookingHandler(mockService)

		// totalAmount: 1 を送っても入力には含まれない
		reqBody := `{
			"eventId": "event-123",
			"items": [{"ticketTypeId": "tt-1", "quantity": 2}],
			"totalAmount": 1
		}`
		c, rec := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("未認証は401", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)

		reqBody := `{"eventId": "event-123", "items": [{"ticketTypeId": "tt-1", "quantity": 1}]}`
		c, _ := newBookingContext(e, reqBody, "")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("不正なJSONは400", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)

		c, _ := newBookingContext(e, `{invalid json`, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("明細が空は400", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)

		c, _ := newBookingContext(e, `{"eventId": "event-123", "items": []}`, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("数量0は400", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)

		reqBody := `{"eventId": "event-123", "items": [{"ticketTypeId": "tt-1", "quantity": 0}]}`
		c, _ := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("存在しないチケット区分は404", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, ticket.ErrTicketTypeNotFound)

		handler := NewBookingHandler(mockService)

		reqBody := `{"eventId": "event-123", "items": [{"ticketTypeId": "unknown", "quantity": 1}]}`
		c, _ := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("在庫不足は409でチケット名と残数を返す", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, &ticket.InsufficientStockError{Name: "一般", Available: 1, Requested: 3})

		handler := NewBookingHandler(mockService)

		reqBody := `{"eventId": "event-123", "items": [{"ticketTypeId": "tt-1", "quantity": 3}]}`
		c, _ := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		assert.Contains(t, httpErr.Message.(string), "一般")
	})

	t.Run("トランザクション競合は409", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, transaction.ErrConflict)

		handler := NewBookingHandler(mockService)

		reqBody := `{"eventId": "event-123", "items": [{"ticketTypeId": "tt-1", "quantity": 1}]}`
		c, _ := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("想定外のエラーは500", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		handler := NewBookingHandler(mockService)

		reqBody := `{"eventId": "event-123", "items": [{"ticketTypeId": "tt-1", "quantity": 1}]}`
		c, _ := newBookingContext(e, reqBody, "user-123")

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	})
}

func TestBookingHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("本人の予約を取得できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetBooking", mock.Anything, "booking-1").Return(&booking.Booking{
			ID: "booking-1", UserID: "user-123", Status: booking.StatusConfirmed, TotalAmount: 5000,
			Items: []booking.Item{{TicketTypeID: "tt-1", Quantity: 1}},
		}, nil)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/bookings/booking-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("booking-1")
		c.Set(middleware.ContextUserIDKey, "user-123")

		err := handler.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("他人の予約は404", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetBooking", mock.Anything, "booking-1").Return(&booking.Booking{
			ID: "booking-1", UserID: "someone-else",
		}, nil)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/bookings/booking-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("booking-1")
		c.Set(middleware.ContextUserIDKey, "user-123")

		err := handler.GetByID(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("存在しない予約は404", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetBooking", mock.Anything, "missing").Return(nil, booking.ErrBookingNotFound)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/bookings/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")
		c.Set(middleware.ContextUserIDKey, "user-123")

		err := handler.GetByID(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

// 内部エラーの詳細（ドライバーのエラー文字列等）はレスポンスボディに含めない
func TestBookingHandler_InternalErrorDetailNotExposed(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockBookingService)
	mockService.On("GetBooking", mock.Anything, "booking-1").
		Return(nil, fmt.Errorf("予約取得に失敗: %w", errors.New("pq: connection refused")))

	handler := NewBookingHandler(mockService)
	e.GET("/bookings/:id", handler.GetByID, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextUserIDKey, "user-123")
			return next(c)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/bookings/booking-1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "予約取得に失敗しました")
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestBookingHandler_GetUserBookings(t *testing.T) {
	e := NewTestEcho()

	t.Run("自分の予約一覧を取得できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetUserBookings", mock.Anything, "user-123", 0, 0).
			Return([]*booking.Booking{
				{ID: "booking-1", UserID: "user-123"},
				{ID: "booking-2", UserID: "user-123"},
			}, nil)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(middleware.ContextUserIDKey, "user-123")

		err := handler.GetUserBookings(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []BookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})
}
