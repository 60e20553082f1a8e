package seats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeatHolds places short-lived holds on seat labels in Redis so two users
// picking seats at the same time see each other's in-flight selections before
// either reaches the booking transaction. Holds expire on their own; the
// database row lock remains the authority at commit time.
type SeatHolds struct {
	redis *redis.Client
}

func NewSeatHolds(redisClient *redis.Client) *SeatHolds {
	return &SeatHolds{redis: redisClient}
}

// Lua script for atomic multi-seat holding. Either every requested label is
// free and all get held, or nothing is written and the conflicting label is
// returned.
const luaHoldSeats = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = event_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat labels

local hold_id = KEYS[1]
local user_id = ARGV[1]
local event_id = ARGV[2]
local ttl = tonumber(ARGV[3])

for i = 4, #ARGV do
    local label_key = "seat_pick:" .. event_id .. ":" .. ARGV[i]
    local holder = redis.call("GET", label_key)
    if holder and holder ~= user_id then
        return {0, ARGV[i]}
    end
end

local hold_key = "seat_hold:" .. hold_id

for i = 4, #ARGV do
    local label_key = "seat_pick:" .. event_id .. ":" .. ARGV[i]
    redis.call("SETEX", label_key, ttl, user_id)
    redis.call("SADD", hold_key, ARGV[i])
end
redis.call("EXPIRE", hold_key, ttl)

return {1, "ok"}
`

// Lua script releasing every label of a hold.
const luaReleaseHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = event_id

local hold_key = "seat_hold:" .. KEYS[1]
local labels = redis.call("SMEMBERS", hold_key)

for i = 1, #labels do
    redis.call("DEL", "seat_pick:" .. ARGV[1] .. ":" .. labels[i])
end
redis.call("DEL", hold_key)

return #labels
`

// Hold atomically holds the given seat labels for the user and returns a hold
// id. A label already held by someone else fails the whole call.
func (h *SeatHolds) Hold(ctx context.Context, eventID, userID uuid.UUID, seatNumbers []string, ttl time.Duration) (string, error) {
	if h.redis == nil {
		return "", fmt.Errorf("redis client not available")
	}

	holdID := uuid.New().String()
	args := []interface{}{
		userID.String(),
		eventID.String(),
		strconv.Itoa(int(ttl.Seconds())),
	}
	for _, number := range seatNumbers {
		args = append(args, number)
	}

	result, err := h.redis.EvalSha(ctx, luaHoldSeats, []string{holdID}, args...).Result()
	if err != nil {
		result, err = h.redis.Eval(ctx, luaHoldSeats, []string{holdID}, args...).Result()
		if err != nil {
			return "", fmt.Errorf("failed to execute seat hold script: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return "", fmt.Errorf("unexpected result format from seat hold script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return "", fmt.Errorf("invalid success flag in seat hold result")
	}

	if success == 0 {
		if label, ok := resultArray[1].(string); ok {
			return "", fmt.Errorf("seat already held: %s", label)
		}
		return "", fmt.Errorf("failed to hold seats")
	}

	return holdID, nil
}

// Release drops a hold and all labels it covers. Releasing an expired or
// unknown hold is a no-op.
func (h *SeatHolds) Release(ctx context.Context, eventID uuid.UUID, holdID string) error {
	if h.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	_, err := h.redis.EvalSha(ctx, luaReleaseHold, []string{holdID}, eventID.String()).Result()
	if err != nil {
		_, err = h.redis.Eval(ctx, luaReleaseHold, []string{holdID}, eventID.String()).Result()
		if err != nil {
			return fmt.Errorf("failed to execute seat release script: %w", err)
		}
	}
	return nil
}

// PreloadScripts loads the Lua scripts into Redis so EvalSha hits on first use.
func (h *SeatHolds) PreloadScripts(ctx context.Context) error {
	if h.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := h.redis.ScriptLoad(ctx, luaHoldSeats).Result(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}
	if _, err := h.redis.ScriptLoad(ctx, luaReleaseHold).Result(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}
	return nil
}
