package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tiketix/internal/seats"
	"tiketix/internal/shared/rejection"
	"tiketix/pkg/cache"

	"github.com/google/uuid"
)

// Cache keys. Concert rule results are invalidated whenever ticket types
// change; browse caches whenever any event changes.
const (
	cacheKeyConcertRules  = "event:concert_rules:"
	cacheKeyBrowsePrefix  = "events:browse:"
	cacheKeyBrowsePattern = cacheKeyBrowsePrefix + "*"

	browseCacheTTL = 2 * time.Minute
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id, organizerID uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetAvailableEvents(ctx context.Context, limit int) ([]EventResponse, error)

	ListTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketTypeResponse, error)
	GetTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*TicketTypeResponse, error)
	UpdateTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID, req UpdateTicketTypeRequest) (*TicketTypeResponse, error)

	// ValidateConcertCategories enforces the three-tier completeness rule for
	// concerts. Results are cached per event until ticket types change.
	ValidateConcertCategories(ctx context.Context, eventID uuid.UUID) error

	// IsSeminar implements the seat package's event check.
	IsSeminar(ctx context.Context, eventID uuid.UUID) (bool, error)
}

type service struct {
	repo           Repository
	cacheService   cache.Service
	concertRuleTTL time.Duration
}

func NewService(repo Repository, concertRuleTTL time.Duration) Service {
	return &service{
		repo:           repo,
		concertRuleTTL: concertRuleTTL,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if err := validateEventDraft(req); err != nil {
		return nil, err
	}

	event := &Event{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		LongDescription: req.LongDescription,
		Category:        req.Category,
		Type:            Type(req.Type),
		Date:            req.Date,
		Time:            req.Time,
		EndTime:         req.EndTime,
		Location:        req.Location,
		Address:         req.Address,
		Capacity:        req.Capacity,
		Sold:            0,
		Status:          StatusActive,
		OrganizerID:     organizerID,
		Image:           req.Image,
	}

	ticketTypes := make([]TicketType, len(req.TicketTypes))
	for i, draft := range req.TicketTypes {
		ticketTypes[i] = TicketType{
			Name:        TierName(draft.Name),
			Price:       draft.Price,
			Quota:       draft.Quota,
			Sold:        0,
			Description: draft.Description,
			Features:    draft.Features,
		}
	}

	var seatMap []seats.Seat
	if event.Type == TypeSeminar && req.SeatRows > 0 && req.SeatsPerRow > 0 {
		seatMap = seats.GenerateSeatMap(uuid.Nil, req.SeatRows, req.SeatsPerRow)
	}

	if err := s.repo.CreateWithTicketTypes(ctx, event, ticketTypes, seatMap); err != nil {
		return nil, err
	}

	s.invalidateBrowseCache(ctx)

	resp := event.ToResponse()
	return &resp, nil
}

// validateEventDraft applies the structural creation-time checks. Binding
// tags catch most of these earlier; the service re-checks so the rules hold
// for every caller, not just HTTP.
func validateEventDraft(req CreateEventRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return rejection.ValidationError("event title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return rejection.ValidationError("event description is required")
	}
	if req.Capacity <= 0 {
		return rejection.ValidationError("event capacity must be greater than 0")
	}
	if !req.Date.After(time.Now()) {
		return rejection.ValidationError("event date must be in the future")
	}
	if !Type(req.Type).IsValid() {
		return rejection.ValidationError("unknown event type")
	}
	if len(req.TicketTypes) == 0 {
		return rejection.ValidationError("at least one ticket type is required")
	}

	totalQuota := 0
	for _, draft := range req.TicketTypes {
		if !TierName(draft.Name).IsValid() {
			return rejection.ValidationError("ticket type name must be one of Regular, VIP, VVIP")
		}
		if draft.Price < 0 {
			return rejection.ValidationError("ticket price cannot be negative")
		}
		if draft.Quota <= 0 {
			return rejection.ValidationError("ticket quota must be greater than 0")
		}
		totalQuota += draft.Quota
	}
	if totalQuota > req.Capacity {
		return rejection.ValidationError("total ticket quota cannot exceed event capacity")
	}

	return nil
}

// Fields frozen once tickets have been sold. Editing these would invalidate
// tickets already purchased.
var protectedAfterSale = map[string]bool{
	"title":    true,
	"date":     true,
	"time":     true,
	"location": true,
	"capacity": true,
}

func (s *service) UpdateEvent(ctx context.Context, id, organizerID uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != organizerID {
		return nil, rejection.NotFound("event")
	}

	updates := buildEventUpdates(req)
	if len(updates) == 0 {
		resp := event.ToResponse()
		return &resp, nil
	}

	if event.Sold > 0 {
		for field := range updates {
			if protectedAfterSale[field] {
				return nil, rejection.ImmutableAfterSale(
					fmt.Sprintf("cannot edit %s after tickets are sold", field))
			}
		}
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	s.invalidateBrowseCache(ctx)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func buildEventUpdates(req UpdateEventRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.LongDescription != nil {
		updates["long_description"] = *req.LongDescription
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Time != nil {
		updates["time"] = *req.Time
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	return updates
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	cacheKey := browseCacheKey(query)
	if s.cacheService != nil {
		var cached PaginatedEvents
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	eventRows, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]EventResponse, len(eventRows))
	for i := range eventRows {
		responses[i] = eventRows[i].ToResponse()
	}

	totalPages := int((totalCount + int64(query.Limit) - 1) / int64(query.Limit))
	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, result, browseCacheTTL)
	}

	return result, nil
}

func browseCacheKey(query EventListQuery) string {
	return fmt.Sprintf("%sp%d:l%d:s=%s:c=%s:t=%s:st=%s",
		cacheKeyBrowsePrefix, query.Page, query.Limit,
		query.Search, query.Category, query.Type, query.Status)
}

func (s *service) GetAvailableEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	eventRows, err := s.repo.GetAvailable(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list available events: %w", err)
	}

	responses := make([]EventResponse, len(eventRows))
	for i := range eventRows {
		responses[i] = eventRows[i].ToResponse()
	}
	return responses, nil
}

func (s *service) ListTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketTypeResponse, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	ticketTypes, err := s.repo.ListTicketTypes(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}

	responses := make([]TicketTypeResponse, len(ticketTypes))
	for i := range ticketTypes {
		responses[i] = ticketTypes[i].ToResponse()
	}
	return responses, nil
}

func (s *service) GetTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*TicketTypeResponse, error) {
	ticketType, err := s.repo.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}
	if ticketType.EventID != eventID {
		return nil, rejection.NotFound("ticket type")
	}
	resp := ticketType.ToResponse()
	return &resp, nil
}

func (s *service) UpdateTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID, req UpdateTicketTypeRequest) (*TicketTypeResponse, error) {
	ticketType, err := s.repo.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}
	if ticketType.EventID != eventID {
		return nil, rejection.NotFound("ticket type")
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quota != nil {
		if *req.Quota < ticketType.Sold {
			return nil, rejection.ValidationError("quota cannot be reduced below tickets already sold")
		}
		updates["quota"] = *req.Quota
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Features != nil {
		updates["features"] = req.Features
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateTicketType(ctx, ticketTypeID, updates); err != nil {
			return nil, err
		}
		// Tier data changed; the cached concert-rule verdict may be stale.
		s.invalidateConcertRules(ctx, eventID)
	}

	updated, err := s.repo.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

// concertRuleVerdict is the cached outcome of the tier completeness check.
type concertRuleVerdict struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing,omitempty"`
}

func (s *service) ValidateConcertCategories(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Type != TypeConcert {
		return rejection.NotFound("concert event")
	}

	var verdict concertRuleVerdict
	cacheKey := cacheKeyConcertRules + eventID.String()

	if s.cacheService != nil {
		if err := s.cacheService.Get(ctx, cacheKey, &verdict); err == nil {
			return verdictToError(verdict)
		}
	}

	ticketTypes, err := s.repo.ListTicketTypes(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to list ticket types: %w", err)
	}

	present := make(map[TierName]bool, len(ticketTypes))
	for _, ticketType := range ticketTypes {
		present[ticketType.Name] = true
	}

	verdict = concertRuleVerdict{Complete: true}
	for _, tier := range ConcertTiers {
		if !present[tier] {
			verdict.Complete = false
			verdict.Missing = append(verdict.Missing, string(tier))
		}
	}

	if s.cacheService != nil {
		// Best effort; a failed write just means we recompute next time.
		_ = s.cacheService.Set(ctx, cacheKey, verdict, s.concertRuleTTL)
	}

	return verdictToError(verdict)
}

func verdictToError(verdict concertRuleVerdict) error {
	if verdict.Complete {
		return nil
	}
	return rejection.MissingCategories(fmt.Sprintf(
		"concert must offer Regular, VIP and VVIP ticket categories (missing: %s)",
		strings.Join(verdict.Missing, ", ")))
}

func (s *service) IsSeminar(ctx context.Context, eventID uuid.UUID) (bool, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	return event.Type == TypeSeminar, nil
}

func (s *service) invalidateBrowseCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, cacheKeyBrowsePattern)
}

func (s *service) invalidateConcertRules(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, cacheKeyConcertRules+eventID.String())
}
