package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
)

type EventHandler struct {
	service EventServiceInterface
}

func NewEventHandler(s EventServiceInterface) *EventHandler {
	return &EventHandler{service: s}
}

type TicketTypeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Price    int    `json:"price" validate:"min=0"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type CreateEventRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	Date        time.Time           `json:"date" validate:"required"`
	Location    string              `json:"location" validate:"required"`
	ImageURL    string              `json:"image_url"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" validate:"dive"`
}

type UpdateEventRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	Date        time.Time           `json:"date" validate:"required"`
	Location    string              `json:"location" validate:"required"`
	ImageURL    string              `json:"image_url"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" validate:"dive"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID: e.ID, Title: e.Title, Description: e.Description,
		Date: e.Date, Location: e.Location, ImageURL: e.ImageURL,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func toTicketTypeInputs(reqs []TicketTypeRequest) []application.TicketTypeInput {
	inputs := make([]application.TicketTypeInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = application.TicketTypeInput{ID: r.ID, Name: r.Name, Price: r.Price, Quantity: r.Quantity}
	}
	return inputs
}

// Create godoc
// @Summary イベントを作成
// @Description イベントとチケット区分をまとめて作成します（管理者のみ）
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	e, err := h.service.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Title: req.Title, Description: req.Description, Date: req.Date,
		Location: req.Location, ImageURL: req.ImageURL,
		TicketTypes: toTicketTypeInputs(req.TicketTypes),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	e, err := h.service.GetEvent(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "イベント取得に失敗しました")
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description 開催日昇順でイベント一覧を取得します
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	events, err := h.service.ListEvents(c.Request().Context(), limit, offset)
	if err != nil {
		return internalError(err, "イベント一覧取得に失敗しました")
	}
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary イベントを更新
// @Description イベントとチケット区分を更新します（管理者のみ）
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body UpdateEventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "更新競合"
// @Router /admin/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	e, err := h.service.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID: id, Title: req.Title, Description: req.Description, Date: req.Date,
		Location: req.Location, ImageURL: req.ImageURL,
		TicketTypes: toTicketTypeInputs(req.TicketTypes),
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, event.ErrOptimisticLockConflict):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Description イベントと紐づくチケット区分を削除します（管理者のみ）
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.DeleteEvent(c.Request().Context(), id); err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "イベント削除に失敗しました")
	}
	return c.NoContent(http.StatusNoContent)
}
