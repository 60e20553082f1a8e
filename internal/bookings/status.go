package bookings

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Active reports whether the booking still counts against the user's
// per-event quota. Cancelled bookings never do; everything else does.
func (s Status) Active() bool {
	return s != StatusCancelled
}
