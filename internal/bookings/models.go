package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking records a purchase of tickets for one tier of one event. For
// seminars SeatNumbers holds the reserved seat labels; for everything else
// it stays empty.
type Booking struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	TicketTypeID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"ticket_type_id"`
	Quantity      int        `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalPrice    float64    `gorm:"not null" json:"total_price"`
	Status        Status     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	BookingDate   time.Time  `gorm:"autoCreateTime" json:"booking_date"`
	SeatNumbers   []string   `gorm:"serializer:json" json:"seat_numbers,omitempty"`
	VisitSchedule *time.Time `json:"visit_schedule,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

type CreateBookingRequest struct {
	EventID       string     `json:"event_id" binding:"required,uuid"`
	TicketTypeID  string     `json:"ticket_type_id" binding:"required,uuid"`
	Quantity      int        `json:"quantity" binding:"required,min=1"`
	SeatNumbers   []string   `json:"seat_numbers" binding:"omitempty,dive,required"`
	VisitSchedule *time.Time `json:"visit_schedule"`
}

// ValidateConcertRequest is the advisory pre-check payload for a concert
// booking.
type ValidateConcertRequest struct {
	EventID      string `json:"event_id" binding:"required,uuid"`
	TicketTypeID string `json:"ticket_type_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type BookingResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	EventID       string     `json:"event_id"`
	TicketTypeID  string     `json:"ticket_type_id"`
	Quantity      int        `json:"quantity"`
	TotalPrice    float64    `json:"total_price"`
	Status        Status     `json:"status"`
	BookingDate   time.Time  `json:"booking_date"`
	SeatNumbers   []string   `json:"seat_numbers,omitempty"`
	VisitSchedule *time.Time `json:"visit_schedule,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		EventID:       b.EventID.String(),
		TicketTypeID:  b.TicketTypeID.String(),
		Quantity:      b.Quantity,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		BookingDate:   b.BookingDate,
		SeatNumbers:   b.SeatNumbers,
		VisitSchedule: b.VisitSchedule,
		CreatedAt:     b.CreatedAt,
		CancelledAt:   b.CancelledAt,
	}
}

type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
