package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tiketix/internal/seats"
	"tiketix/internal/shared/rejection"
	"tiketix/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- Mock Repository ---

type mockRepo struct {
	createWithTicketTypesFn func(ctx context.Context, event *Event, ticketTypes []TicketType, seatMap []seats.Seat) error
	getByIDFn               func(ctx context.Context, id uuid.UUID) (*Event, error)
	getAllFn                func(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	getAvailableFn          func(ctx context.Context, limit int) ([]Event, error)
	updateFn                func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	getTicketTypeFn         func(ctx context.Context, id uuid.UUID) (*TicketType, error)
	listTicketTypesFn       func(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)
	updateTicketTypeFn      func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

func (m *mockRepo) CreateWithTicketTypes(ctx context.Context, event *Event, ticketTypes []TicketType, seatMap []seats.Seat) error {
	return m.createWithTicketTypesFn(ctx, event, ticketTypes, seatMap)
}
func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockRepo) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	return m.getAllFn(ctx, query)
}
func (m *mockRepo) GetAvailable(ctx context.Context, limit int) ([]Event, error) {
	return m.getAvailableFn(ctx, limit)
}
func (m *mockRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.updateFn(ctx, id, updates)
}
func (m *mockRepo) GetTicketType(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	return m.getTicketTypeFn(ctx, id)
}
func (m *mockRepo) ListTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	return m.listTicketTypesFn(ctx, eventID)
}
func (m *mockRepo) UpdateTicketType(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.updateTicketTypeFn(ctx, id, updates)
}

// --- In-memory cache fake ---

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) bool {
	_, ok := c.data[key]
	return ok
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

// --- Tests ---

func validCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Cloud Native Summit",
		Description: "Two days of infrastructure talks",
		Category:    "technology",
		Type:        string(TypeConcert),
		Date:        time.Now().Add(30 * 24 * time.Hour),
		Time:        "19:00",
		Location:    "Jakarta Convention Center",
		Capacity:    100,
		TicketTypes: []CreateTicketTypeRequest{
			{Name: string(TierRegular), Price: 50, Quota: 50},
			{Name: string(TierVIP), Price: 150, Quota: 50},
		},
	}
}

func TestCreateEvent_QuotaSumExceedsCapacity(t *testing.T) {
	svc := NewService(&mockRepo{}, time.Minute)

	req := validCreateRequest()
	req.TicketTypes = []CreateTicketTypeRequest{
		{Name: string(TierRegular), Price: 50, Quota: 60},
		{Name: string(TierVIP), Price: 150, Quota: 60},
	}

	resp, err := svc.CreateEvent(context.Background(), uuid.New(), req)

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindValidationError, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "capacity")
}

func TestCreateEvent_QuotaSumExactlyCapacity(t *testing.T) {
	repo := &mockRepo{
		createWithTicketTypesFn: func(ctx context.Context, event *Event, ticketTypes []TicketType, seatMap []seats.Seat) error {
			event.ID = uuid.New()
			return nil
		},
	}
	svc := NewService(repo, time.Minute)

	resp, err := svc.CreateEvent(context.Background(), uuid.New(), validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, 100, resp.Capacity)
}

func TestCreateEvent_PastDateRejected(t *testing.T) {
	svc := NewService(&mockRepo{}, time.Minute)

	req := validCreateRequest()
	req.Date = time.Now().Add(-24 * time.Hour)

	resp, err := svc.CreateEvent(context.Background(), uuid.New(), req)

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindValidationError, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "future")
}

func TestCreateEvent_RequiresTicketTypes(t *testing.T) {
	svc := NewService(&mockRepo{}, time.Minute)

	req := validCreateRequest()
	req.TicketTypes = nil

	_, err := svc.CreateEvent(context.Background(), uuid.New(), req)
	assert.Equal(t, rejection.KindValidationError, rejection.KindOf(err))
}

func TestCreateEvent_InvalidTierName(t *testing.T) {
	svc := NewService(&mockRepo{}, time.Minute)

	req := validCreateRequest()
	req.TicketTypes[0].Name = "Platinum"

	_, err := svc.CreateEvent(context.Background(), uuid.New(), req)
	assert.Equal(t, rejection.KindValidationError, rejection.KindOf(err))
}

func TestCreateEvent_SeminarGeneratesSeatMap(t *testing.T) {
	var gotSeatMap []seats.Seat
	repo := &mockRepo{
		createWithTicketTypesFn: func(ctx context.Context, event *Event, ticketTypes []TicketType, seatMap []seats.Seat) error {
			event.ID = uuid.New()
			gotSeatMap = seatMap
			return nil
		},
	}
	svc := NewService(repo, time.Minute)

	req := validCreateRequest()
	req.Type = string(TypeSeminar)
	req.Capacity = 30
	req.TicketTypes = []CreateTicketTypeRequest{
		{Name: string(TierRegular), Price: 25, Quota: 30},
	}
	req.SeatRows = 3
	req.SeatsPerRow = 10

	_, err := svc.CreateEvent(context.Background(), uuid.New(), req)

	assert.NoError(t, err)
	assert.Len(t, gotSeatMap, 30)
	assert.Equal(t, "A1", gotSeatMap[0].SeatNumber)
	assert.Equal(t, "C10", gotSeatMap[29].SeatNumber)
}

func TestUpdateEvent_GuardBlocksCapacityAfterSale(t *testing.T) {
	organizerID := uuid.New()
	eventID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, OrganizerID: organizerID, Sold: 10, Capacity: 100}, nil
		},
	}
	svc := NewService(repo, time.Minute)

	newCapacity := 200
	resp, err := svc.UpdateEvent(context.Background(), eventID, organizerID, UpdateEventRequest{
		Capacity: &newCapacity,
	})

	assert.Nil(t, resp)
	assert.Equal(t, rejection.KindImmutableAfterSale, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "capacity")
}

func TestUpdateEvent_DescriptionAllowedAfterSale(t *testing.T) {
	organizerID := uuid.New()
	eventID := uuid.New()
	updated := false

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, OrganizerID: organizerID, Sold: 10, Capacity: 100}, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
			updated = true
			assert.Contains(t, updates, "description")
			return nil
		},
	}
	svc := NewService(repo, time.Minute)

	desc := "Updated description"
	_, err := svc.UpdateEvent(context.Background(), eventID, organizerID, UpdateEventRequest{
		Description: &desc,
	})

	assert.NoError(t, err)
	assert.True(t, updated)
}

func TestUpdateEvent_ProtectedFieldsEditableBeforeSale(t *testing.T) {
	organizerID := uuid.New()
	eventID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, OrganizerID: organizerID, Sold: 0, Capacity: 100}, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
			return nil
		},
	}
	svc := NewService(repo, time.Minute)

	newCapacity := 200
	_, err := svc.UpdateEvent(context.Background(), eventID, organizerID, UpdateEventRequest{
		Capacity: &newCapacity,
	})

	assert.NoError(t, err)
}

func TestUpdateEvent_WrongOrganizer(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, OrganizerID: uuid.New()}, nil
		},
	}
	svc := NewService(repo, time.Minute)

	title := "Hijacked"
	_, err := svc.UpdateEvent(context.Background(), eventID, uuid.New(), UpdateEventRequest{Title: &title})

	assert.Equal(t, rejection.KindNotFound, rejection.KindOf(err))
}

func TestValidateConcertCategories_MissingTier(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, Type: TypeConcert}, nil
		},
		listTicketTypesFn: func(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
			return []TicketType{
				{Name: TierRegular},
				{Name: TierVIP},
			}, nil
		},
	}
	svc := NewService(repo, time.Minute)

	err := svc.ValidateConcertCategories(context.Background(), eventID)

	assert.Equal(t, rejection.KindMissingCategories, rejection.KindOf(err))
	assert.Contains(t, err.Error(), "VVIP")
}

func TestValidateConcertCategories_Complete(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, Type: TypeConcert}, nil
		},
		listTicketTypesFn: func(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
			return []TicketType{
				{Name: TierRegular},
				{Name: TierVIP},
				{Name: TierVVIP},
			}, nil
		},
	}
	svc := NewService(repo, time.Minute)

	assert.NoError(t, svc.ValidateConcertCategories(context.Background(), eventID))
}

func TestValidateConcertCategories_CachedUntilTierChange(t *testing.T) {
	eventID := uuid.New()
	tierID := uuid.New()
	listCalls := 0

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, Type: TypeConcert}, nil
		},
		listTicketTypesFn: func(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
			listCalls++
			return []TicketType{{Name: TierRegular}, {Name: TierVIP}, {Name: TierVVIP}}, nil
		},
		getTicketTypeFn: func(ctx context.Context, id uuid.UUID) (*TicketType, error) {
			return &TicketType{ID: tierID, EventID: eventID, Name: TierVIP, Quota: 50}, nil
		},
		updateTicketTypeFn: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
			return nil
		},
	}
	svc := NewService(repo, time.Minute)
	svc.SetCacheService(newMemoryCache())

	assert.NoError(t, svc.ValidateConcertCategories(context.Background(), eventID))
	assert.NoError(t, svc.ValidateConcertCategories(context.Background(), eventID))
	assert.Equal(t, 1, listCalls, "second check must be served from cache")

	// Changing a tier invalidates the cached verdict.
	price := 175.0
	_, err := svc.UpdateTicketType(context.Background(), eventID, tierID, UpdateTicketTypeRequest{Price: &price})
	assert.NoError(t, err)

	assert.NoError(t, svc.ValidateConcertCategories(context.Background(), eventID))
	assert.Equal(t, 2, listCalls, "tier change must force a recompute")
}

func TestValidateConcertCategories_NonConcert(t *testing.T) {
	eventID := uuid.New()

	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, Type: TypeSeminar}, nil
		},
	}
	svc := NewService(repo, time.Minute)

	err := svc.ValidateConcertCategories(context.Background(), eventID)
	assert.Equal(t, rejection.KindNotFound, rejection.KindOf(err))
}

func TestGetAllEvents_BrowseCacheInvalidatedByUpdate(t *testing.T) {
	eventID := uuid.New()
	organizerID := uuid.New()
	listCalls := 0

	repo := &mockRepo{
		getAllFn: func(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
			listCalls++
			return []Event{{ID: eventID, Title: "Summit", OrganizerID: organizerID}}, 1, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
			return &Event{ID: eventID, OrganizerID: organizerID, Sold: 0, Capacity: 100}, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
			return nil
		},
	}
	svc := NewService(repo, time.Minute)
	svc.SetCacheService(newMemoryCache())

	query := EventListQuery{Page: 1, Limit: 10}
	_, err := svc.GetAllEvents(context.Background(), query)
	assert.NoError(t, err)
	result, err := svc.GetAllEvents(context.Background(), query)
	assert.NoError(t, err)
	assert.Equal(t, 1, listCalls, "second browse must be served from cache")
	assert.Equal(t, int64(1), result.TotalCount)

	// An event update drops the browse cache.
	desc := "updated"
	_, err = svc.UpdateEvent(context.Background(), eventID, organizerID, UpdateEventRequest{Description: &desc})
	assert.NoError(t, err)

	_, err = svc.GetAllEvents(context.Background(), query)
	assert.NoError(t, err)
	assert.Equal(t, 2, listCalls, "event change must force a reload")
}

func TestUpdateTicketType_QuotaBelowSold(t *testing.T) {
	eventID := uuid.New()
	tierID := uuid.New()

	repo := &mockRepo{
		getTicketTypeFn: func(ctx context.Context, id uuid.UUID) (*TicketType, error) {
			return &TicketType{ID: tierID, EventID: eventID, Name: TierRegular, Quota: 100, Sold: 40}, nil
		},
	}
	svc := NewService(repo, time.Minute)

	newQuota := 30
	_, err := svc.UpdateTicketType(context.Background(), eventID, tierID, UpdateTicketTypeRequest{Quota: &newQuota})

	assert.Equal(t, rejection.KindValidationError, rejection.KindOf(err))
}
