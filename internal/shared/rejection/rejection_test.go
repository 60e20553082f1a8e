package rejection

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindDuplicateBooking, KindOf(DuplicateBooking("already booked")))
	assert.Equal(t, KindQuotaExceeded, KindOf(QuotaExceeded("sold out")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain error")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindOf_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("booking failed: %w", SeatUnavailable("seats A1 are not available"))

	assert.Equal(t, KindSeatUnavailable, KindOf(wrapped))
	assert.Equal(t, "seats A1 are not available", As(wrapped).Message)
}

func TestErrorsIs_MatchesByKind(t *testing.T) {
	err := NotFound("event")

	assert.True(t, errors.Is(err, NotFound("booking")))
	assert.False(t, errors.Is(err, QuotaExceeded("nope")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("event")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(MalformedRequest("bad id")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ValidationError("capacity")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(DuplicateBooking("dup")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(QuotaExceeded("full")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(SeatUnavailable("taken")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(MissingCategories("no VVIP")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ImmutableAfterSale("frozen")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "event not found", NotFound("event").Error())
}
