package seats

import (
	"context"
	"testing"
	"time"

	"tiketix/internal/shared/rejection"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- Mocks ---

type mockSeatRepo struct {
	listByEventIDFn func(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
	findAvailableFn func(ctx context.Context, eventID uuid.UUID, tier string) ([]Seat, error)
	releaseSeatsFn  func(ctx context.Context, eventID uuid.UUID, seatNumbers []string) error
}

func (m *mockSeatRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	return m.listByEventIDFn(ctx, eventID)
}
func (m *mockSeatRepo) FindAvailable(ctx context.Context, eventID uuid.UUID, tier string) ([]Seat, error) {
	return m.findAvailableFn(ctx, eventID, tier)
}
func (m *mockSeatRepo) ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatNumbers []string) error {
	return m.releaseSeatsFn(ctx, eventID, seatNumbers)
}

type mockEventChecker struct {
	isSeminarFn func(ctx context.Context, eventID uuid.UUID) (bool, error)
}

func (m *mockEventChecker) IsSeminar(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return m.isSeminarFn(ctx, eventID)
}

type mockBookingChecker struct {
	hasActiveBookingFn func(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

func (m *mockBookingChecker) HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	return m.hasActiveBookingFn(ctx, userID, eventID)
}

// --- Tests ---

func seminarChecker() *mockEventChecker {
	return &mockEventChecker{
		isSeminarFn: func(ctx context.Context, eventID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
}

func TestSelectSeminarSeats_EmptySelection(t *testing.T) {
	svc := NewService(&mockSeatRepo{}, seminarChecker(), nil, time.Minute)

	resp, err := svc.SelectSeminarSeats(context.Background(), uuid.New(), uuid.New(), nil)

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindMalformedRequest, rejection.KindOf(err))
}

func TestSelectSeminarSeats_NonSeminarRejected(t *testing.T) {
	checker := &mockEventChecker{
		isSeminarFn: func(ctx context.Context, eventID uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(&mockSeatRepo{}, checker, nil, time.Minute)

	resp, err := svc.SelectSeminarSeats(context.Background(), uuid.New(), uuid.New(), []string{"A1"})

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindMalformedRequest, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "seminars")
}

func TestSelectSeminarSeats_DuplicateBookingRejected(t *testing.T) {
	svc := NewService(&mockSeatRepo{}, seminarChecker(), nil, time.Minute)
	svc.SetBookingChecker(&mockBookingChecker{
		hasActiveBookingFn: func(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
			return true, nil
		},
	})

	resp, err := svc.SelectSeminarSeats(context.Background(), uuid.New(), uuid.New(), []string{"A1"})

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindDuplicateBooking, rejection.KindOf(err))
}

func TestSelectSeminarSeats_EnumeratesUnavailableSeats(t *testing.T) {
	repo := &mockSeatRepo{
		findAvailableFn: func(ctx context.Context, eventID uuid.UUID, tier string) ([]Seat, error) {
			return []Seat{{SeatNumber: "B1"}}, nil
		},
	}
	svc := NewService(repo, seminarChecker(), nil, time.Minute)

	resp, err := svc.SelectSeminarSeats(context.Background(), uuid.New(), uuid.New(), []string{"A1", "B1", "C7"})

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindSeatUnavailable, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "A1")
	assert.Contains(t, err.Error(), "C7")
	assert.NotContains(t, err.Error(), "B1")
}

func TestSelectSeminarSeats_Success(t *testing.T) {
	repo := &mockSeatRepo{
		findAvailableFn: func(ctx context.Context, eventID uuid.UUID, tier string) ([]Seat, error) {
			assert.Equal(t, DefaultTier, tier)
			return []Seat{
				{ID: uuid.New(), SeatNumber: "A1", Row: "A"},
				{ID: uuid.New(), SeatNumber: "A2", Row: "A"},
				{ID: uuid.New(), SeatNumber: "A3", Row: "A"},
			}, nil
		},
	}
	svc := NewService(repo, seminarChecker(), nil, time.Minute)

	resp, err := svc.SelectSeminarSeats(context.Background(), uuid.New(), uuid.New(), []string{"A1", "A2"})

	assert.NoError(t, err)
	assert.Len(t, resp.Seats, 2)
	// No Redis configured, so no hold is issued.
	assert.Empty(t, resp.HoldID)
}
