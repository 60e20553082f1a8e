package seats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
	FindAvailable(ctx context.Context, eventID uuid.UUID, tier string) ([]Seat, error)
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatNumbers []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("row ASC, seat_number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) FindAvailable(ctx context.Context, eventID uuid.UUID, tier string) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("tier = ?", tier).
		Where("is_booked = ?", false).
		Order("row ASC, seat_number ASC").
		Find(&seats).Error
	return seats, err
}

// ReleaseSeats frees previously reserved seats, e.g. when the booking holding
// them is cancelled.
func (r *repository) ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("event_id = ?", eventID).
		Where("seat_number IN ?", seatNumbers).
		Updates(map[string]interface{}{
			"is_booked": false,
			"booked_by": nil,
		}).Error
}

// CreateBatchTx inserts a generated seat map inside a caller-owned transaction.
func CreateBatchTx(tx *gorm.DB, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return tx.Create(&seats).Error
}

// ReleaseSeatsTx frees reserved seats inside a caller-owned transaction.
func ReleaseSeatsTx(tx *gorm.DB, eventID uuid.UUID, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	return tx.Model(&Seat{}).
		Where("event_id = ?", eventID).
		Where("seat_number IN ?", seatNumbers).
		Updates(map[string]interface{}{
			"is_booked": false,
			"booked_by": nil,
		}).Error
}

// LockAvailableTx loads the event's unbooked seats of a tier with a row-level
// lock so a concurrent allocation for the same seats blocks until the caller's
// transaction finishes.
func LockAvailableTx(tx *gorm.DB, eventID uuid.UUID, tier string) ([]Seat, error) {
	var seats []Seat
	err := tx.
		Set("gorm:query_option", "FOR UPDATE").
		Where("event_id = ?", eventID).
		Where("tier = ?", tier).
		Where("is_booked = ?", false).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock seats: %w", err)
	}
	return seats, nil
}

// MarkReservedTx flags the given seats as booked by the user inside a
// caller-owned transaction.
func MarkReservedTx(tx *gorm.DB, seatIDs []uuid.UUID, userID uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}
	return tx.Model(&Seat{}).
		Where("id IN ?", seatIDs).
		Updates(map[string]interface{}{
			"is_booked": true,
			"booked_by": userID,
		}).Error
}
