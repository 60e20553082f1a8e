package bookings

import (
	"context"
	"sync"
	"testing"

	"tiketix/internal/events"
	"tiketix/internal/notifications"
	"tiketix/internal/shared/rejection"
	"tiketix/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- Mock Repository ---

type mockRepo struct {
	getByIDFn             func(ctx context.Context, id uuid.UUID) (*Booking, error)
	getUserBookingsFn     func(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	getEventBookingsFn    func(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	hasActiveBookingFn    func(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	countActiveQuantityFn func(ctx context.Context, userID, eventID uuid.UUID) (int, error)
	createWithRuleCheckFn func(ctx context.Context, booking *Booking) error
	cancelFn              func(ctx context.Context, booking *Booking) error
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockRepo) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return m.getUserBookingsFn(ctx, userID, query)
}
func (m *mockRepo) GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	return m.getEventBookingsFn(ctx, eventID)
}
func (m *mockRepo) HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	return m.hasActiveBookingFn(ctx, userID, eventID)
}
func (m *mockRepo) CountActiveQuantity(ctx context.Context, userID, eventID uuid.UUID) (int, error) {
	return m.countActiveQuantityFn(ctx, userID, eventID)
}
func (m *mockRepo) CreateWithRuleCheck(ctx context.Context, booking *Booking) error {
	return m.createWithRuleCheckFn(ctx, booking)
}
func (m *mockRepo) Cancel(ctx context.Context, booking *Booking) error {
	return m.cancelFn(ctx, booking)
}

// --- Mock EventGateway ---

type mockEventGateway struct {
	getEventByIDFn              func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
	getTicketTypeFn             func(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*events.TicketTypeResponse, error)
	validateConcertCategoriesFn func(ctx context.Context, eventID uuid.UUID) error
}

func (m *mockEventGateway) GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	return m.getEventByIDFn(ctx, id)
}
func (m *mockEventGateway) GetTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*events.TicketTypeResponse, error) {
	return m.getTicketTypeFn(ctx, eventID, ticketTypeID)
}
func (m *mockEventGateway) ValidateConcertCategories(ctx context.Context, eventID uuid.UUID) error {
	return m.validateConcertCategoriesFn(ctx, eventID)
}

// --- Recording producer ---

type recordingProducer struct {
	published []notifications.BookingEvent
}

func (p *recordingProducer) PublishBookingEvent(ctx context.Context, event notifications.BookingEvent) error {
	p.published = append(p.published, event)
	return nil
}
func (p *recordingProducer) Close() error { return nil }

// --- Tests ---

func concertEvent(id uuid.UUID) *events.EventResponse {
	return &events.EventResponse{
		ID:       id.String(),
		Title:    "Arena Night",
		Type:     events.TypeConcert,
		Capacity: 1000,
		Status:   events.StatusActive,
	}
}

func validConcertRequest(eventID, tierID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		EventID:      eventID.String(),
		TicketTypeID: tierID.String(),
		Quantity:     2,
	}
}

func TestBookTicket_Success(t *testing.T) {
	eventID := uuid.New()
	tierID := uuid.New()
	userID := uuid.New()

	repo := &mockRepo{
		createWithRuleCheckFn: func(ctx context.Context, booking *Booking) error {
			booking.ID = uuid.New()
			booking.Status = StatusPending
			booking.TotalPrice = 150.0 * float64(booking.Quantity)
			return nil
		},
	}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return concertEvent(eventID), nil
		},
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return nil
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	resp, err := svc.BookTicket(context.Background(), userID, validConcertRequest(eventID, tierID))

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 2, resp.Quantity)
	assert.Equal(t, 300.0, resp.TotalPrice)
}

func TestBookTicket_EventNotFound(t *testing.T) {
	repo := &mockRepo{}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return nil, rejection.NotFound("event")
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	resp, err := svc.BookTicket(context.Background(), uuid.New(), validConcertRequest(uuid.New(), uuid.New()))

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindNotFound, rejection.KindOf(err))
}

func TestBookTicket_IncompleteConcertRejected(t *testing.T) {
	eventID := uuid.New()
	created := false

	repo := &mockRepo{
		createWithRuleCheckFn: func(ctx context.Context, booking *Booking) error {
			created = true
			return nil
		},
	}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return concertEvent(eventID), nil
		},
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return rejection.MissingCategories("concert must offer Regular, VIP and VVIP ticket categories (missing: VVIP)")
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	resp, err := svc.BookTicket(context.Background(), uuid.New(), validConcertRequest(eventID, uuid.New()))

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindMissingCategories, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "VVIP")
	assert.False(t, created, "booking must not be created for an incomplete concert")
}

func TestBookTicket_SeminarDuplicateFastPath(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		hasActiveBookingFn: func(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return &events.EventResponse{
				ID:     eventID.String(),
				Type:   events.TypeSeminar,
				Status: events.StatusActive,
			}, nil
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	req := CreateBookingRequest{
		EventID:      eventID.String(),
		TicketTypeID: uuid.New().String(),
		Quantity:     1,
		SeatNumbers:  []string{"A1"},
	}
	resp, err := svc.BookTicket(context.Background(), uuid.New(), req)

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindDuplicateBooking, rejection.KindOf(err))
}

func TestBookTicket_SeminarWithoutSeatsAccepted(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		hasActiveBookingFn: func(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
			return false, nil
		},
		createWithRuleCheckFn: func(ctx context.Context, booking *Booking) error {
			booking.ID = uuid.New()
			booking.Status = StatusPending
			return nil
		},
	}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return &events.EventResponse{
				ID:     eventID.String(),
				Type:   events.TypeSeminar,
				Status: events.StatusActive,
			}, nil
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	req := CreateBookingRequest{
		EventID:      eventID.String(),
		TicketTypeID: uuid.New().String(),
		Quantity:     1,
	}
	resp, err := svc.BookTicket(context.Background(), uuid.New(), req)

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Empty(t, resp.SeatNumbers)
}

func TestBookTicket_InvalidEventID(t *testing.T) {
	svc := NewService(&mockRepo{}, &mockEventGateway{}, nil, logger.GetDefault())

	resp, err := svc.BookTicket(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:      "not-a-uuid",
		TicketTypeID: uuid.New().String(),
		Quantity:     1,
	})

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindMalformedRequest, rejection.KindOf(err))
}

func TestValidateConcertBooking_WithinCap(t *testing.T) {
	eventID := uuid.New()
	tierID := uuid.New()

	repo := &mockRepo{
		countActiveQuantityFn: func(ctx context.Context, userID, eventID uuid.UUID) (int, error) {
			return 3, nil
		},
	}
	gateway := &mockEventGateway{
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return nil
		},
		getTicketTypeFn: func(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*events.TicketTypeResponse, error) {
			return &events.TicketTypeResponse{
				ID:        ticketTypeID.String(),
				EventID:   eventID.String(),
				Name:      events.TierVIP,
				Available: 40,
			}, nil
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	err := svc.ValidateConcertBooking(context.Background(), uuid.New(), ValidateConcertRequest{
		EventID:      eventID.String(),
		TicketTypeID: tierID.String(),
		Quantity:     2,
	})

	assert.NoError(t, err)
}

func TestValidateConcertBooking_CapExceeded(t *testing.T) {
	repo := &mockRepo{
		countActiveQuantityFn: func(ctx context.Context, userID, eventID uuid.UUID) (int, error) {
			return 3, nil
		},
	}
	gateway := &mockEventGateway{
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return nil
		},
		getTicketTypeFn: func(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*events.TicketTypeResponse, error) {
			return &events.TicketTypeResponse{Name: events.TierRegular, Available: 40}, nil
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())
	err := svc.ValidateConcertBooking(context.Background(), uuid.New(), ValidateConcertRequest{
		EventID:      uuid.New().String(),
		TicketTypeID: uuid.New().String(),
		Quantity:     3,
	})

	assert.Equal(t, rejection.KindQuotaExceeded, rejection.KindOf(err))
}

func TestValidateConcertBooking_IncompleteTiers(t *testing.T) {
	gateway := &mockEventGateway{
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return rejection.MissingCategories("concert must offer Regular, VIP and VVIP ticket categories (missing: VIP)")
		},
	}

	svc := NewService(&mockRepo{}, gateway, nil, logger.GetDefault())
	err := svc.ValidateConcertBooking(context.Background(), uuid.New(), ValidateConcertRequest{
		EventID:      uuid.New().String(),
		TicketTypeID: uuid.New().String(),
		Quantity:     1,
	})

	assert.Equal(t, rejection.KindMissingCategories, rejection.KindOf(err))
}

func TestBookTicket_RejectedBookingHasNoSideEffects(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		createWithRuleCheckFn: func(ctx context.Context, booking *Booking) error {
			return rejection.SeatUnavailable("seats A1 are not available")
		},
	}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return concertEvent(eventID), nil
		},
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return nil
		},
	}
	producer := &recordingProducer{}

	svc := NewService(repo, gateway, producer, logger.GetDefault())
	resp, err := svc.BookTicket(context.Background(), uuid.New(), validConcertRequest(eventID, uuid.New()))

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindSeatUnavailable, rejection.KindOf(err))
	assert.Empty(t, producer.published, "a rejected booking must not publish an event")
}

func TestCancelBooking_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	bookingID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Booking, error) {
			return &Booking{ID: bookingID, UserID: owner, Status: StatusPending}, nil
		},
	}

	svc := NewService(repo, &mockEventGateway{}, nil, logger.GetDefault())
	resp, err := svc.CancelBooking(context.Background(), bookingID, stranger)

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindNotFound, rejection.KindOf(err))
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	owner := uuid.New()
	bookingID := uuid.New()

	cancelCalls := 0
	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Booking, error) {
			return &Booking{ID: bookingID, UserID: owner, Status: StatusCancelled}, nil
		},
		cancelFn: func(ctx context.Context, booking *Booking) error {
			cancelCalls++
			return nil
		},
	}

	svc := NewService(repo, &mockEventGateway{}, nil, logger.GetDefault())
	resp, err := svc.CancelBooking(context.Background(), bookingID, owner)

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindMalformedRequest, rejection.KindOf(err))
	assert.Equal(t, 0, cancelCalls)
}

func TestCancelBooking_Success(t *testing.T) {
	owner := uuid.New()
	bookingID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Booking, error) {
			return &Booking{ID: bookingID, UserID: owner, EventID: uuid.New(), Status: StatusPending}, nil
		},
		cancelFn: func(ctx context.Context, booking *Booking) error {
			booking.Status = StatusCancelled
			return nil
		},
	}

	svc := NewService(repo, &mockEventGateway{}, nil, logger.GetDefault())
	resp, err := svc.CancelBooking(context.Background(), bookingID, owner)

	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)
}

// quotaRepo simulates the serialized rule check: a mutex stands in for the
// row lock, so concurrent requests see a consistent remaining count.
type quotaRepo struct {
	mockRepo
	mu        sync.Mutex
	remaining int
}

func (q *quotaRepo) CreateWithRuleCheck(ctx context.Context, booking *Booking) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if booking.Quantity > q.remaining {
		return rejection.QuotaExceeded("Regular tickets are sold out")
	}
	q.remaining -= booking.Quantity
	booking.ID = uuid.New()
	booking.Status = StatusPending
	return nil
}

func TestBookTicket_ConcurrentLastTicket(t *testing.T) {
	eventID := uuid.New()
	tierID := uuid.New()

	repo := &quotaRepo{remaining: 1}
	gateway := &mockEventGateway{
		getEventByIDFn: func(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
			return concertEvent(eventID), nil
		},
		validateConcertCategoriesFn: func(ctx context.Context, eventID uuid.UUID) error {
			return nil
		},
	}

	svc := NewService(repo, gateway, nil, logger.GetDefault())

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.BookTicket(context.Background(), uuid.New(), CreateBookingRequest{
				EventID:      eventID.String(),
				TicketTypeID: tierID.String(),
				Quantity:     1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	quotaRejections := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if rejection.KindOf(err) == rejection.KindQuotaExceeded {
			quotaRejections++
		}
	}

	assert.Equal(t, 1, successes, "exactly one booking may win the last ticket")
	assert.Equal(t, attempts-1, quotaRejections)
	assert.Equal(t, 0, repo.remaining)
}
