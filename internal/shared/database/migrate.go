package database

import (
	"tiketix/internal/bookings"
	"tiketix/internal/events"
	"tiketix/internal/seats"
	"tiketix/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&events.TicketType{},
		&seats.Seat{},
		&bookings.Booking{},
	)
}
