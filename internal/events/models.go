package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a published happening users can book tickets for. Type drives the
// booking rules: seminars get seat selection and the one-booking-per-user
// rule, concerts get the tier completeness and per-user cap rules.
type Event struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string     `json:"title" gorm:"not null;size:255"`
	Description     string     `json:"description" gorm:"type:text;not null"`
	LongDescription string     `json:"long_description,omitempty" gorm:"type:text"`
	Category        string     `json:"category" gorm:"not null;size:50"`
	Type            Type       `json:"type" gorm:"type:varchar(20);not null"`
	Date            time.Time  `json:"date" gorm:"not null"`
	Time            string     `json:"time" gorm:"not null;size:5"`
	EndTime         string     `json:"end_time,omitempty" gorm:"size:5"`
	Location        string     `json:"location" gorm:"not null;size:255"`
	Address         string     `json:"address,omitempty" gorm:"size:500"`
	Capacity        int        `json:"capacity" gorm:"not null;check:capacity > 0"`
	Sold            int        `json:"sold" gorm:"not null;default:0;check:sold >= 0"`
	Status          Status     `json:"status" gorm:"type:varchar(20);default:'draft'"`
	OrganizerID     uuid.UUID  `json:"organizer_id" gorm:"type:uuid;not null"`
	Image           string     `json:"image,omitempty" gorm:"size:500"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	TicketTypes []TicketType `json:"ticket_types,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
}

// TicketType is one sellable tier of an event. sold never exceeds quota; the
// counter is only moved by the booking transaction.
type TicketType struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;index;not null"`
	Name        TierName  `json:"name" gorm:"type:varchar(20);not null"`
	Price       float64   `json:"price" gorm:"not null;check:price >= 0"`
	Quota       int       `json:"quota" gorm:"not null;check:quota > 0"`
	Sold        int       `json:"sold" gorm:"not null;default:0;check:sold >= 0"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Features    []string  `json:"features,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

func (TicketType) TableName() string {
	return "ticket_types"
}

// Available reports how many units of this tier can still be sold.
func (t *TicketType) Available() int {
	available := t.Quota - t.Sold
	if available < 0 {
		return 0
	}
	return available
}

type EventResponse struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	LongDescription  string               `json:"long_description,omitempty"`
	Category         string               `json:"category"`
	Type             Type                 `json:"type"`
	Date             time.Time            `json:"date"`
	Time             string               `json:"time"`
	EndTime          string               `json:"end_time,omitempty"`
	Location         string               `json:"location"`
	Address          string               `json:"address,omitempty"`
	Capacity         int                  `json:"capacity"`
	Sold             int                  `json:"sold"`
	AvailableTickets int                  `json:"available_tickets"`
	Status           Status               `json:"status"`
	OrganizerID      string               `json:"organizer_id"`
	Image            string               `json:"image,omitempty"`
	TicketTypes      []TicketTypeResponse `json:"ticket_types,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type TicketTypeResponse struct {
	ID          string   `json:"id"`
	EventID     string   `json:"event_id"`
	Name        TierName `json:"name"`
	Price       float64  `json:"price"`
	Quota       int      `json:"quota"`
	Sold        int      `json:"sold"`
	Available   int      `json:"available"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// CreateTicketTypeRequest is one tier draft supplied at event creation.
type CreateTicketTypeRequest struct {
	Name        string   `json:"name" binding:"required,tickettier"`
	Price       float64  `json:"price" binding:"min=0"`
	Quota       int      `json:"quota" binding:"required,min=1"`
	Description string   `json:"description" binding:"max=2000"`
	Features    []string `json:"features"`
}

type CreateEventRequest struct {
	Title           string                    `json:"title" binding:"required,min=3,max=255"`
	Description     string                    `json:"description" binding:"required,max=2000"`
	LongDescription string                    `json:"long_description" binding:"max=10000"`
	Category        string                    `json:"category" binding:"required,max=50"`
	Type            string                    `json:"type" binding:"required,oneof=seminar concert workshop exhibition"`
	Date            time.Time                 `json:"date" binding:"required"`
	Time            string                    `json:"time" binding:"required"`
	EndTime         string                    `json:"end_time"`
	Location        string                    `json:"location" binding:"required,max=255"`
	Address         string                    `json:"address" binding:"max=500"`
	Capacity        int                       `json:"capacity" binding:"required,min=1,max=100000"`
	Image           string                    `json:"image" binding:"omitempty,url"`
	TicketTypes     []CreateTicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`

	// Seat map generation for seminar events
	SeatRows    int `json:"seat_rows" binding:"omitempty,min=1,max=26"`
	SeatsPerRow int `json:"seats_per_row" binding:"omitempty,min=1,max=100"`
}

type UpdateEventRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=3,max=255"`
	Description     *string    `json:"description" binding:"omitempty,max=2000"`
	LongDescription *string    `json:"long_description" binding:"omitempty,max=10000"`
	Category        *string    `json:"category" binding:"omitempty,max=50"`
	Date            *time.Time `json:"date"`
	Time            *string    `json:"time"`
	EndTime         *string    `json:"end_time"`
	Location        *string    `json:"location" binding:"omitempty,max=255"`
	Address         *string    `json:"address" binding:"omitempty,max=500"`
	Capacity        *int       `json:"capacity" binding:"omitempty,min=1,max=100000"`
	Status          *string    `json:"status" binding:"omitempty,oneof=draft active completed cancelled"`
	Image           *string    `json:"image" binding:"omitempty,url"`
}

type UpdateTicketTypeRequest struct {
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Quota       *int     `json:"quota" binding:"omitempty,min=1"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Features    []string `json:"features"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Type     string `form:"type" binding:"omitempty,oneof=seminar concert workshop exhibition"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active completed cancelled"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Helper method to convert Event to EventResponse
func (e *Event) ToResponse() EventResponse {
	availableTickets := e.Capacity - e.Sold
	if availableTickets < 0 {
		availableTickets = 0
	}

	resp := EventResponse{
		ID:               e.ID.String(),
		Title:            e.Title,
		Description:      e.Description,
		LongDescription:  e.LongDescription,
		Category:         e.Category,
		Type:             e.Type,
		Date:             e.Date,
		Time:             e.Time,
		EndTime:          e.EndTime,
		Location:         e.Location,
		Address:          e.Address,
		Capacity:         e.Capacity,
		Sold:             e.Sold,
		AvailableTickets: availableTickets,
		Status:           e.Status,
		OrganizerID:      e.OrganizerID.String(),
		Image:            e.Image,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}

	for i := range e.TicketTypes {
		resp.TicketTypes = append(resp.TicketTypes, e.TicketTypes[i].ToResponse())
	}
	return resp
}

func (t *TicketType) ToResponse() TicketTypeResponse {
	return TicketTypeResponse{
		ID:          t.ID.String(),
		EventID:     t.EventID.String(),
		Name:        t.Name,
		Price:       t.Price,
		Quota:       t.Quota,
		Sold:        t.Sold,
		Available:   t.Available(),
		Description: t.Description,
		Features:    t.Features,
	}
}
