package seats

import (
	"time"

	"github.com/google/uuid"
)

// Seat is one selectable seat of a seated event. The seat number is the
// human-readable label (row letter + position, e.g. "A12") users pick by.
type Seat struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID    uuid.UUID  `json:"event_id" gorm:"type:uuid;uniqueIndex:idx_event_seat;not null"`
	SeatNumber string     `json:"seat_number" gorm:"not null;size:10;uniqueIndex:idx_event_seat"`
	Row        string     `json:"row" gorm:"not null;size:2"`
	Section    string     `json:"section" gorm:"not null;size:50;default:'Main'"`
	Tier       string     `json:"tier" gorm:"not null;size:20;default:'Regular'"`
	IsBooked   bool       `json:"is_booked" gorm:"not null;default:false"`
	BookedBy   *uuid.UUID `json:"booked_by,omitempty" gorm:"type:uuid"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

// SeatResponse is the browse/selection view of a seat.
type SeatResponse struct {
	ID         string `json:"id"`
	SeatNumber string `json:"seat_number"`
	Row        string `json:"row"`
	Section    string `json:"section"`
	Tier       string `json:"tier"`
	IsBooked   bool   `json:"is_booked"`
}

func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:         s.ID.String(),
		SeatNumber: s.SeatNumber,
		Row:        s.Row,
		Section:    s.Section,
		Tier:       s.Tier,
		IsBooked:   s.IsBooked,
	}
}

// SelectSeatsRequest is the pre-check payload: the seats a user wants to
// claim before submitting the final booking.
type SelectSeatsRequest struct {
	SeatNumbers []string `json:"seat_numbers" binding:"required,min=1,dive,required"`
}

// SelectSeatsResponse reports the seats matched by the pre-check and the
// short-lived hold placed on them, if Redis is available.
type SelectSeatsResponse struct {
	Seats      []SeatResponse `json:"seats"`
	HoldID     string         `json:"hold_id,omitempty"`
	TTLSeconds int            `json:"ttl_seconds,omitempty"`
}
