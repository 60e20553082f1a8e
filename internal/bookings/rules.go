package bookings

import (
	"fmt"

	"tiketix/internal/events"
	"tiketix/internal/shared/rejection"
)

// MaxTicketsPerConcert caps how many concert tickets a single user can hold
// across all their non-cancelled bookings for one event.
const MaxTicketsPerConcert = 5

// RuleInput carries everything the booking rules need, pre-loaded by the
// caller so the rules themselves stay free of I/O.
type RuleInput struct {
	EventType events.Type
	TierName  events.TierName

	// RequestedQuantity is how many tickets this request asks for.
	RequestedQuantity int

	// HasActiveBooking is true when the user already holds a non-cancelled
	// booking for this event.
	HasActiveBooking bool

	// ActiveQuantity is the ticket count across the user's non-cancelled
	// bookings for this event.
	ActiveQuantity int

	// TierAvailable is quota minus sold for the requested tier.
	TierAvailable int
}

// EvaluateRules runs the booking rules in order and returns the first
// rejection, or nil when the request may proceed. Order matters: the
// double-booking check fires before quota so a duplicate request gets the
// duplicate message even when the tier is also sold out.
func EvaluateRules(in RuleInput) error {
	if err := checkSeminarDoubleBooking(in); err != nil {
		return err
	}
	if err := checkConcertCap(in); err != nil {
		return err
	}
	return checkTierQuota(in)
}

// Seminars are single-admission: one non-cancelled booking per user.
func checkSeminarDoubleBooking(in RuleInput) error {
	if in.EventType != events.TypeSeminar {
		return nil
	}
	if in.HasActiveBooking {
		return rejection.DuplicateBooking("you already have a booking for this seminar")
	}
	if in.RequestedQuantity > 1 {
		return rejection.MalformedRequest("seminar bookings are limited to one ticket per person")
	}
	return nil
}

func checkConcertCap(in RuleInput) error {
	if in.EventType != events.TypeConcert {
		return nil
	}
	if in.ActiveQuantity+in.RequestedQuantity > MaxTicketsPerConcert {
		remaining := MaxTicketsPerConcert - in.ActiveQuantity
		if remaining <= 0 {
			return rejection.QuotaExceeded(fmt.Sprintf(
				"you have reached the limit of %d tickets for this concert", MaxTicketsPerConcert))
		}
		return rejection.QuotaExceeded(fmt.Sprintf(
			"you can only buy %d more tickets for this concert (limit %d per person)",
			remaining, MaxTicketsPerConcert))
	}
	return nil
}

func checkTierQuota(in RuleInput) error {
	if in.RequestedQuantity <= in.TierAvailable {
		return nil
	}
	if in.TierAvailable <= 0 {
		return rejection.QuotaExceeded(fmt.Sprintf("%s tickets are sold out", in.TierName))
	}
	return rejection.QuotaExceeded(fmt.Sprintf(
		"only %d %s tickets left, requested %d", in.TierAvailable, in.TierName, in.RequestedQuantity))
}
