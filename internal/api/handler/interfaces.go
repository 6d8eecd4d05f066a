package handler

import (
	"context"

	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/promotion"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/user"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// TicketServiceInterface はチケット区分サービスのインターフェース
type TicketServiceInterface interface {
	GetTicketType(ctx context.Context, id string) (*ticket.TicketType, error)
	GetTicketTypesByEvent(ctx context.Context, eventID string) ([]*ticket.TicketType, error)
	CountRemainingTickets(ctx context.Context, eventID string) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
}

// PromotionServiceInterface はプロモーションサービスのインターフェース
type PromotionServiceInterface interface {
	CreatePromotion(ctx context.Context, input application.CreatePromotionInput) (*promotion.Promotion, error)
	GetPromotion(ctx context.Context, id string) (*promotion.Promotion, error)
	ListPromotions(ctx context.Context, limit, offset int) ([]*promotion.Promotion, error)
	UpdatePromotion(ctx context.Context, input application.UpdatePromotionInput) (*promotion.Promotion, error)
	DeletePromotion(ctx context.Context, id string) error
	ValidateCode(ctx context.Context, code string) (*promotion.Promotion, error)
}

// UserServiceInterface はユーザーサービスのインターフェース
type UserServiceInterface interface {
	CreateUser(ctx context.Context, input application.CreateUserInput) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error)
	UpdateUser(ctx context.Context, input application.UpdateUserInput) (*user.User, error)
	DeleteUser(ctx context.Context, id string) error
}
