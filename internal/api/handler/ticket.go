package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
)

type TicketHandler struct {
	service TicketServiceInterface
}

func NewTicketHandler(s TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: s}
}

type TicketTypeResponse struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

func toTicketTypeResponse(tt *ticket.TicketType) TicketTypeResponse {
	return TicketTypeResponse{
		ID: tt.ID, EventID: tt.EventID, Name: tt.Name,
		Price: tt.Price, Quantity: tt.Quantity,
	}
}

type RemainingCountResponse struct {
	EventID string `json:"event_id"`
	Count   int    `json:"count"`
}

// GetByID godoc
// @Summary チケット区分を取得
// @Description 指定IDのチケット区分を取得します
// @Tags tickets
// @Produce json
// @Param id path string true "チケット区分ID"
// @Success 200 {object} TicketTypeResponse
// @Failure 404 {object} map[string]string
// @Router /ticket-types/{id} [get]
func (h *TicketHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	tt, err := h.service.GetTicketType(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketTypeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "チケット区分取得に失敗しました")
	}
	return c.JSON(http.StatusOK, toTicketTypeResponse(tt))
}

// GetByEvent godoc
// @Summary イベントのチケット区分一覧を取得
// @Description 指定イベントの全チケット区分を取得します
// @Tags tickets
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} TicketTypeResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/ticket-types [get]
func (h *TicketHandler) GetByEvent(c echo.Context) error {
	eventID := c.Param("id")
	types, err := h.service.GetTicketTypesByEvent(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "チケット区分一覧取得に失敗しました")
	}
	resp := make([]TicketTypeResponse, len(types))
	for i, tt := range types {
		resp[i] = toTicketTypeResponse(tt)
	}
	return c.JSON(http.StatusOK, resp)
}

// CountRemaining godoc
// @Summary イベントの残チケット数を取得
// @Description キャッシュ経由で残チケット総数を取得します（最大30秒の遅延あり）
// @Tags tickets
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} RemainingCountResponse
// @Router /events/{id}/remaining [get]
func (h *TicketHandler) CountRemaining(c echo.Context) error {
	eventID := c.Param("id")
	count, err := h.service.CountRemainingTickets(c.Request().Context(), eventID)
	if err != nil {
		return internalError(err, "残チケット数取得に失敗しました")
	}
	return c.JSON(http.StatusOK, RemainingCountResponse{EventID: eventID, Count: count})
}
