package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestEventHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にイベントを作成できる", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("CreateEvent", mock.Anything, mock.MatchedBy(func(input application.CreateEventInput) bool {
			return input.Title == "夏フェス2026" && len(input.TicketTypes) == 1
		})).Return(&event.Event{
			ID: "event-1", Title: "夏フェス2026", Location: "幕張メッセ",
			Date: time.Now().Add(30 * 24 * time.Hour),
		}, nil)

		handler := NewEventHandler(mockService)

		reqBody := `{
			"title": "夏フェス2026",
			"date": "2026-08-01T10:00:00Z",
			"location": "幕張メッセ",
			"ticket_types": [{"name": "一般", "price": 8000, "quantity": 1000}]
		}`
		req := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("タイトルなしは400", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		reqBody := `{"date": "2026-08-01T10:00:00Z", "location": "幕張メッセ"}`
		req := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockService.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	})
}

func TestEventHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("存在しないイベントは404", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("GetEvent", mock.Anything, "missing").Return(nil, event.ErrEventNotFound)

		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := handler.GetByID(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestEventHandler_List(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockEventService)
	mockService.On("ListEvents", mock.Anything, 0, 0).Return([]*event.Event{
		{ID: "event-1", Title: "イベント1"},
		{ID: "event-2", Title: "イベント2"},
	}, nil)

	handler := NewEventHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.List(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestEventHandler_Update_Conflict(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockEventService)
	mockService.On("UpdateEvent", mock.Anything, mock.AnythingOfType("application.UpdateEventInput")).
		Return(nil, event.ErrOptimisticLockConflict)

	handler := NewEventHandler(mockService)

	reqBody := `{"title": "新タイトル", "date": "2026-08-01T10:00:00Z", "location": "新会場"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/events/event-1", strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("event-1")

	err := handler.Update(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestEventHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockEventService)
	mockService.On("DeleteEvent", mock.Anything, "event-1").Return(nil)

	handler := NewEventHandler(mockService)

	req := httptest.NewRequest(http.MethodDelete, "/admin/events/event-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("event-1")

	err := handler.Delete(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
