package rejection

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a request was refused by the booking rule engine.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindDuplicateBooking   Kind = "DUPLICATE_BOOKING"
	KindQuotaExceeded      Kind = "QUOTA_EXCEEDED"
	KindSeatUnavailable    Kind = "SEAT_UNAVAILABLE"
	KindMalformedRequest   Kind = "MALFORMED_REQUEST"
	KindMissingCategories  Kind = "MISSING_CATEGORIES"
	KindImmutableAfterSale Kind = "IMMUTABLE_AFTER_SALE"
	KindValidationError    Kind = "VALIDATION_ERROR"
)

// Rejection is a typed business-rule refusal, distinct from transport or
// infrastructure faults. It travels through the service layer as a regular
// error and is unwrapped by controllers via errors.As.
type Rejection struct {
	Kind    Kind
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Is lets errors.Is match two rejections of the same kind.
func (r *Rejection) Is(target error) bool {
	var other *Rejection
	if errors.As(target, &other) {
		return r.Kind == other.Kind
	}
	return false
}

func New(kind Kind, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(what string) *Rejection {
	return Newf(KindNotFound, "%s not found", what)
}

func DuplicateBooking(message string) *Rejection {
	return New(KindDuplicateBooking, message)
}

func QuotaExceeded(message string) *Rejection {
	return New(KindQuotaExceeded, message)
}

func SeatUnavailable(message string) *Rejection {
	return New(KindSeatUnavailable, message)
}

func MalformedRequest(message string) *Rejection {
	return New(KindMalformedRequest, message)
}

func MissingCategories(message string) *Rejection {
	return New(KindMissingCategories, message)
}

func ImmutableAfterSale(message string) *Rejection {
	return New(KindImmutableAfterSale, message)
}

func ValidationError(message string) *Rejection {
	return New(KindValidationError, message)
}

// As extracts a rejection from an error chain, nil if none present.
func As(err error) *Rejection {
	var r *Rejection
	if errors.As(err, &r) {
		return r
	}
	return nil
}

// KindOf reports the rejection kind carried by err, or "" for plain errors.
func KindOf(err error) Kind {
	if r := As(err); r != nil {
		return r.Kind
	}
	return ""
}

// HTTPStatus maps a rejection kind to the status code controllers respond with.
// Plain (non-rejection) errors map to 500.
func HTTPStatus(err error) int {
	r := As(err)
	if r == nil {
		return http.StatusInternalServerError
	}

	switch r.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindMalformedRequest, KindValidationError:
		return http.StatusBadRequest
	case KindDuplicateBooking, KindQuotaExceeded, KindSeatUnavailable,
		KindMissingCategories, KindImmutableAfterSale:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
