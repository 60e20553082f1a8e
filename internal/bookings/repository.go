package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiketix/internal/events"
	"tiketix/internal/seats"
	"tiketix/internal/shared/rejection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]Booking, error)

	HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	CountActiveQuantity(ctx context.Context, userID, eventID uuid.UUID) (int, error)

	// CreateWithRuleCheck runs the booking rules and creates the booking in
	// one serialized transaction.
	CreateWithRuleCheck(ctx context.Context, booking *Booking) error

	// Cancel marks the booking cancelled and releases its seats. Sold
	// counters are left untouched.
	Cancel(ctx context.Context, booking *Booking) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejection.NotFound("booking")
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookingRows []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookingRows).Error

	return bookingRows, totalCount, err
}

func (r *repository) GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var bookingRows []Booking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("status <> ?", StatusCancelled).
		Order("created_at DESC").
		Find(&bookingRows).Error
	return bookingRows, err
}

func (r *repository) HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Where("status <> ?", StatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountActiveQuantity(ctx context.Context, userID, eventID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Where("status <> ?", StatusCancelled).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// CreateWithRuleCheck is the authoritative booking path. It locks the event
// and the requested tier, re-runs every rule against the locked state,
// reserves seats for seminars, creates the booking and moves the sold
// counters. Any rejection rolls the whole thing back, seats included.
func (r *repository) CreateWithRuleCheck(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row so concurrent bookings for the same event
		// serialize here.
		var event events.Event
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", booking.EventID).
			First(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rejection.NotFound("event")
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		if event.Status != events.StatusActive {
			return rejection.MalformedRequest("event is not open for booking")
		}

		var tier events.TicketType
		err = tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", booking.TicketTypeID).
			First(&tier).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rejection.NotFound("ticket type")
			}
			return fmt.Errorf("failed to lock ticket type: %w", err)
		}
		if tier.EventID != event.ID {
			return rejection.NotFound("ticket type")
		}

		// Re-read the user's standing under the lock; the service-level
		// pre-check may be stale by now.
		var activeQuantity int
		err = tx.Model(&Booking{}).
			Where("user_id = ? AND event_id = ?", booking.UserID, booking.EventID).
			Where("status <> ?", StatusCancelled).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&activeQuantity).Error
		if err != nil {
			return fmt.Errorf("failed to count existing bookings: %w", err)
		}

		if err := EvaluateRules(RuleInput{
			EventType:         event.Type,
			TierName:          tier.Name,
			RequestedQuantity: booking.Quantity,
			HasActiveBooking:  activeQuantity > 0,
			ActiveQuantity:    activeQuantity,
			TierAvailable:     tier.Available(),
		}); err != nil {
			return err
		}

		// Seat labels are optional for seminars; without them the booking is
		// unseated and allocation is skipped entirely.
		if event.Type == events.TypeSeminar && len(booking.SeatNumbers) > 0 {
			allocated, err := seats.AllocateTx(tx, event.ID, booking.UserID, booking.SeatNumbers, booking.Quantity)
			if err != nil {
				return err
			}
			labels := make([]string, len(allocated))
			for i := range allocated {
				labels[i] = allocated[i].SeatNumber
			}
			booking.SeatNumbers = labels
		}

		booking.TotalPrice = tier.Price * float64(booking.Quantity)
		booking.Status = StatusPending

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		err = tx.Model(&events.TicketType{}).
			Where("id = ?", tier.ID).
			Update("sold", gorm.Expr("sold + ?", booking.Quantity)).Error
		if err != nil {
			return fmt.Errorf("failed to update ticket type sold count: %w", err)
		}

		err = tx.Model(&events.Event{}).
			Where("id = ?", event.ID).
			Update("sold", gorm.Expr("sold + ?", booking.Quantity)).Error
		if err != nil {
			return fmt.Errorf("failed to update event sold count: %w", err)
		}

		return nil
	})
}

func (r *repository) Cancel(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&Booking{}).
			Where("id = ?", booking.ID).
			Where("status <> ?", StatusCancelled).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return rejection.MalformedRequest("booking is already cancelled")
		}

		if len(booking.SeatNumbers) > 0 {
			if err := seats.ReleaseSeatsTx(tx, booking.EventID, booking.SeatNumbers); err != nil {
				return fmt.Errorf("failed to release seats: %w", err)
			}
		}

		booking.Status = StatusCancelled
		booking.CancelledAt = &now
		return nil
	})
}
