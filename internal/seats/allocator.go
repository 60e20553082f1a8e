package seats

import (
	"fmt"
	"strings"

	"tiketix/internal/shared/rejection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTier is the tier seat maps are generated with and the one seat
// selection resolves against. Seated events use regular seating.
const DefaultTier = "Regular"

// MatchSeats resolves requested seat labels against the currently available
// seats. Every requested label must match an available seat; otherwise the
// full list of offending labels is reported, not just the first.
func MatchSeats(requested []string, available []Seat) (matched []Seat, unavailable []string) {
	byNumber := make(map[string]Seat, len(available))
	for _, seat := range available {
		byNumber[seat.SeatNumber] = seat
	}

	for _, number := range requested {
		if seat, ok := byNumber[number]; ok {
			matched = append(matched, seat)
		} else {
			unavailable = append(unavailable, number)
		}
	}
	return matched, unavailable
}

// UnavailableRejection builds the rejection naming every seat that could not
// be claimed.
func UnavailableRejection(unavailable []string) *rejection.Rejection {
	return rejection.SeatUnavailable(
		fmt.Sprintf("seats %s are not available", strings.Join(unavailable, ", ")))
}

// seatStore is the slice of seat persistence the allocation flow touches,
// split out so the contract can be exercised without a database.
type seatStore interface {
	LockAvailable() ([]Seat, error)
	MarkReserved(seatIDs []uuid.UUID, userID uuid.UUID) error
}

type gormSeatStore struct {
	tx      *gorm.DB
	eventID uuid.UUID
}

func (g gormSeatStore) LockAvailable() ([]Seat, error) {
	return LockAvailableTx(g.tx, g.eventID, DefaultTier)
}

func (g gormSeatStore) MarkReserved(seatIDs []uuid.UUID, userID uuid.UUID) error {
	return MarkReservedTx(g.tx, seatIDs, userID)
}

// AllocateTx reserves the requested seats for the user inside a caller-owned
// transaction. The available set is read under a row lock, so two requests
// racing for the same label serialize; the loser sees the seat as booked and
// gets a SeatUnavailable rejection. The caller's transaction rollback undoes
// the reservation, which keeps seat state and booking creation atomic.
func AllocateTx(tx *gorm.DB, eventID, userID uuid.UUID, seatNumbers []string, quantity int) ([]Seat, error) {
	return allocate(gormSeatStore{tx: tx, eventID: eventID}, userID, seatNumbers, quantity)
}

// allocate checks every requested label against the available set before
// writing anything. A rejection must leave the seats exactly as it found them.
func allocate(store seatStore, userID uuid.UUID, seatNumbers []string, quantity int) ([]Seat, error) {
	if len(seatNumbers) != quantity {
		return nil, rejection.MalformedRequest("number of seats must match the ticket quantity")
	}

	available, err := store.LockAvailable()
	if err != nil {
		return nil, err
	}

	matched, unavailable := MatchSeats(seatNumbers, available)
	if len(unavailable) > 0 {
		return nil, UnavailableRejection(unavailable)
	}

	seatIDs := make([]uuid.UUID, len(matched))
	for i, seat := range matched {
		seatIDs[i] = seat.ID
	}

	if err := store.MarkReserved(seatIDs, userID); err != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}

	return matched, nil
}

// maxSeatRows bounds the grid height: row labels are single letters A-Z.
const maxSeatRows = 26

// GenerateSeatMap builds a rows x seatsPerRow seat grid for a new event.
// Rows are lettered A, B, C, ... and seats numbered per row, so labels read
// "A1".."A10", "B1".. and so on. Rows beyond Z are clamped.
func GenerateSeatMap(eventID uuid.UUID, rows, seatsPerRow int) []Seat {
	if rows <= 0 || seatsPerRow <= 0 {
		return nil
	}
	if rows > maxSeatRows {
		rows = maxSeatRows
	}

	seats := make([]Seat, 0, rows*seatsPerRow)
	for r := 0; r < rows; r++ {
		rowLabel := string(rune('A' + r))
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, Seat{
				EventID:    eventID,
				SeatNumber: fmt.Sprintf("%s%d", rowLabel, n),
				Row:        rowLabel,
				Section:    "Main",
				Tier:       DefaultTier,
			})
		}
	}
	return seats
}
