package seats

import (
	"context"
	"fmt"
	"time"

	"tiketix/internal/shared/rejection"

	"github.com/google/uuid"
)

// EventChecker reports whether an event exists and is a seminar. Declared
// here to avoid a dependency on the events package; implemented by its
// service and wired at startup.
type EventChecker interface {
	IsSeminar(ctx context.Context, eventID uuid.UUID) (bool, error)
}

// BookingChecker reports whether a user already holds an active booking for
// an event. Implemented by the bookings service.
type BookingChecker interface {
	HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

// Service interface defines the contract for seat browsing and the seat
// selection pre-check path.
type Service interface {
	SetBookingChecker(checker BookingChecker)

	ListEventSeats(ctx context.Context, eventID uuid.UUID) ([]SeatResponse, error)
	SelectSeminarSeats(ctx context.Context, eventID, userID uuid.UUID, seatNumbers []string) (*SelectSeatsResponse, error)
}

type service struct {
	repo           Repository
	eventChecker   EventChecker
	bookingChecker BookingChecker
	holds          *SeatHolds
	holdTTL        time.Duration
}

// NewService creates a new seat service instance. holds may be nil; the
// pre-check then skips Redis holds and relies on the booking transaction.
func NewService(repo Repository, eventChecker EventChecker, holds *SeatHolds, holdTTL time.Duration) Service {
	return &service{
		repo:         repo,
		eventChecker: eventChecker,
		holds:        holds,
		holdTTL:      holdTTL,
	}
}

// SetBookingChecker injects the booking dependency after construction, since
// the bookings service is built later in the wiring order.
func (s *service) SetBookingChecker(checker BookingChecker) {
	s.bookingChecker = checker
}

func (s *service) ListEventSeats(ctx context.Context, eventID uuid.UUID) ([]SeatResponse, error) {
	seatRows, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	responses := make([]SeatResponse, len(seatRows))
	for i := range seatRows {
		responses[i] = seatRows[i].ToResponse()
	}
	return responses, nil
}

// SelectSeminarSeats is the pre-check path: it verifies the requested labels
// are claimable right now and, when Redis is available, holds them briefly.
// The permanent reservation happens inside the booking transaction; a hold
// only narrows the race window between picking seats and booking them.
func (s *service) SelectSeminarSeats(ctx context.Context, eventID, userID uuid.UUID, seatNumbers []string) (*SelectSeatsResponse, error) {
	if len(seatNumbers) == 0 {
		return nil, rejection.MalformedRequest("at least one seat must be selected")
	}

	isSeminar, err := s.eventChecker.IsSeminar(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !isSeminar {
		return nil, rejection.MalformedRequest("seat selection is only available for seminars")
	}

	if s.bookingChecker != nil {
		hasBooking, err := s.bookingChecker.HasActiveBooking(ctx, userID, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing bookings: %w", err)
		}
		if hasBooking {
			return nil, rejection.DuplicateBooking("you already have a booking for this seminar")
		}
	}

	available, err := s.repo.FindAvailable(ctx, eventID, DefaultTier)
	if err != nil {
		return nil, fmt.Errorf("failed to load available seats: %w", err)
	}

	matched, unavailable := MatchSeats(seatNumbers, available)
	if len(unavailable) > 0 {
		return nil, UnavailableRejection(unavailable)
	}

	response := &SelectSeatsResponse{
		Seats: make([]SeatResponse, len(matched)),
	}
	for i := range matched {
		response.Seats[i] = matched[i].ToResponse()
	}

	if s.holds != nil {
		holdID, err := s.holds.Hold(ctx, eventID, userID, seatNumbers, s.holdTTL)
		if err != nil {
			// Another in-flight selection beat us to one of the labels.
			return nil, rejection.SeatUnavailable(err.Error())
		}
		response.HoldID = holdID
		response.TTLSeconds = int(s.holdTTL.Seconds())
	}

	return response, nil
}
