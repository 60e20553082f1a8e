package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiketix/internal/seats"
	"tiketix/internal/shared/rejection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateWithTicketTypes(ctx context.Context, event *Event, ticketTypes []TicketType, seatMap []seats.Seat) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	GetAvailable(ctx context.Context, limit int) ([]Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error

	GetTicketType(ctx context.Context, id uuid.UUID) (*TicketType, error)
	ListTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)
	UpdateTicketType(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithTicketTypes persists the event, its tiers and (for seated events)
// the generated seat map as a single transaction.
func (r *repository) CreateWithTicketTypes(ctx context.Context, event *Event, ticketTypes []TicketType, seatMap []seats.Seat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		for i := range ticketTypes {
			ticketTypes[i].EventID = event.ID
		}
		if err := tx.Create(&ticketTypes).Error; err != nil {
			return fmt.Errorf("failed to create ticket types: %w", err)
		}
		event.TicketTypes = ticketTypes

		for i := range seatMap {
			seatMap[i].EventID = event.ID
		}
		if err := seats.CreateBatchTx(tx, seatMap); err != nil {
			return fmt.Errorf("failed to create seat map: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejection.NotFound("event")
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var eventRows []Event
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		baseQuery = baseQuery.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if query.Category != "" {
		baseQuery = baseQuery.Where("category = ?", query.Category)
	}
	if query.Type != "" {
		baseQuery = baseQuery.Where("type = ?", query.Type)
	}
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("TicketTypes").
		Order("date ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&eventRows).Error

	return eventRows, totalCount, err
}

// GetAvailable returns active future events that still have tickets left.
func (r *repository) GetAvailable(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	var eventRows []Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes").
		Where("status = ?", StatusActive).
		Where("date > ?", time.Now()).
		Where("sold < capacity").
		Order("date ASC").
		Limit(limit).
		Find(&eventRows).Error
	return eventRows, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return rejection.NotFound("event")
	}
	return nil
}

func (r *repository) GetTicketType(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	var ticketType TicketType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticketType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejection.NotFound("ticket type")
		}
		return nil, err
	}
	return &ticketType, nil
}

func (r *repository) ListTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	var ticketTypes []TicketType
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Find(&ticketTypes).Error
	return ticketTypes, err
}

func (r *repository) UpdateTicketType(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).
		Model(&TicketType{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return rejection.NotFound("ticket type")
	}
	return nil
}
