package bookings

import (
	"context"
	"time"

	"tiketix/internal/events"
	"tiketix/internal/notifications"
	"tiketix/internal/shared/rejection"
	"tiketix/pkg/logger"

	"github.com/google/uuid"
)

// EventGateway is the slice of the events service the booking flow needs.
type EventGateway interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
	GetTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*events.TicketTypeResponse, error)
	ValidateConcertCategories(ctx context.Context, eventID uuid.UUID) error
}

type Service interface {
	BookTicket(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	ValidateConcertBooking(ctx context.Context, userID uuid.UUID, req ValidateConcertRequest) error
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]BookingResponse, error)

	// HasActiveBooking implements the seat package's booking check.
	HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	eventSvc EventGateway
	producer notifications.Producer
	log      *logger.Logger
}

// NewService wires the booking orchestrator. producer may be nil when the
// Kafka pipeline is disabled.
func NewService(repo Repository, eventSvc EventGateway, producer notifications.Producer, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		eventSvc: eventSvc,
		producer: producer,
		log:      log,
	}
}

// BookTicket runs the full booking flow: event lookup, concert tier
// completeness, then the serialized rule check and creation. The repository
// transaction is the authority; pre-checks here only fail fast.
func (s *service) BookTicket(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, rejection.MalformedRequest("invalid event ID")
	}
	ticketTypeID, err := uuid.Parse(req.TicketTypeID)
	if err != nil {
		return nil, rejection.MalformedRequest("invalid ticket type ID")
	}
	if req.Quantity <= 0 {
		return nil, rejection.MalformedRequest("quantity must be at least 1")
	}

	event, err := s.eventSvc.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Type == events.TypeConcert {
		if err := s.eventSvc.ValidateConcertCategories(ctx, eventID); err != nil {
			s.logRejection(ctx, eventID, userID, err)
			return nil, err
		}
	}

	if event.Type == events.TypeSeminar {
		hasBooking, err := s.repo.HasActiveBooking(ctx, userID, eventID)
		if err != nil {
			return nil, err
		}
		if hasBooking {
			err := rejection.DuplicateBooking("you already have a booking for this seminar")
			s.logRejection(ctx, eventID, userID, err)
			return nil, err
		}
	}

	booking := &Booking{
		UserID:        userID,
		EventID:       eventID,
		TicketTypeID:  ticketTypeID,
		Quantity:      req.Quantity,
		SeatNumbers:   req.SeatNumbers,
		VisitSchedule: req.VisitSchedule,
	}

	if err := s.repo.CreateWithRuleCheck(ctx, booking); err != nil {
		s.logRejection(ctx, eventID, userID, err)
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), eventID.String(), userID.String())
	s.publish(ctx, notifications.EventBookingCreated, booking)

	resp := booking.ToResponse()
	return &resp, nil
}

// ValidateConcertBooking answers whether a concert booking of the given size
// would currently be accepted: tier completeness, the per-user cap and the
// tier quota, in that order. It is advisory; the booking transaction re-checks
// everything under the lock.
func (s *service) ValidateConcertBooking(ctx context.Context, userID uuid.UUID, req ValidateConcertRequest) error {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return rejection.MalformedRequest("invalid event ID")
	}
	ticketTypeID, err := uuid.Parse(req.TicketTypeID)
	if err != nil {
		return rejection.MalformedRequest("invalid ticket type ID")
	}
	if req.Quantity <= 0 {
		return rejection.MalformedRequest("quantity must be at least 1")
	}

	if err := s.eventSvc.ValidateConcertCategories(ctx, eventID); err != nil {
		return err
	}

	tier, err := s.eventSvc.GetTicketType(ctx, eventID, ticketTypeID)
	if err != nil {
		return err
	}

	activeQuantity, err := s.repo.CountActiveQuantity(ctx, userID, eventID)
	if err != nil {
		return err
	}

	return EvaluateRules(RuleInput{
		EventType:         events.TypeConcert,
		TierName:          tier.Name,
		RequestedQuantity: req.Quantity,
		HasActiveBooking:  activeQuantity > 0,
		ActiveQuantity:    activeQuantity,
		TierAvailable:     tier.Available,
	})
}

func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		// Do not leak other users' bookings.
		return nil, rejection.NotFound("booking")
	}
	if !booking.Status.Active() {
		return nil, rejection.MalformedRequest("booking is already cancelled")
	}

	if err := s.repo.Cancel(ctx, booking); err != nil {
		return nil, err
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.EventID.String(), userID.String())
	s.publish(ctx, notifications.EventBookingCancelled, booking)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, rejection.NotFound("booking")
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	bookingRows, totalCount, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	responses := make([]BookingResponse, len(bookingRows))
	for i := range bookingRows {
		responses[i] = bookingRows[i].ToResponse()
	}

	totalPages := int((totalCount + int64(query.Limit) - 1) / int64(query.Limit))
	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]BookingResponse, error) {
	bookingRows, err := s.repo.GetEventBookings(ctx, eventID)
	if err != nil {
		return nil, err
	}
	responses := make([]BookingResponse, len(bookingRows))
	for i := range bookingRows {
		responses[i] = bookingRows[i].ToResponse()
	}
	return responses, nil
}

func (s *service) HasActiveBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	return s.repo.HasActiveBooking(ctx, userID, eventID)
}

func (s *service) logRejection(ctx context.Context, eventID, userID uuid.UUID, err error) {
	if rejection.As(err) == nil {
		return
	}
	s.log.LogBookingRejected(ctx, eventID.String(), userID.String(), err.Error())
}

// publish sends the booking event best-effort; a broker outage must not fail
// a booking that is already committed.
func (s *service) publish(ctx context.Context, eventType string, booking *Booking) {
	if s.producer == nil {
		return
	}
	err := s.producer.PublishBookingEvent(ctx, notifications.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID.String(),
		EventID:    booking.EventID.String(),
		UserID:     booking.UserID.String(),
		Quantity:   booking.Quantity,
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to publish booking event", "booking_id", booking.ID.String())
	}
}
