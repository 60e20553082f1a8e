package dashboard

import "time"

// OrganizerStats summarizes everything an organizer sees on their dashboard.
type OrganizerStats struct {
	TotalEvents    int64               `json:"total_events"`
	ActiveEvents   int64               `json:"active_events"`
	TicketsSold    int64               `json:"tickets_sold"`
	TotalRevenue   float64             `json:"total_revenue"`
	EventBreakdown []EventSalesSummary `json:"event_breakdown"`
}

// EventSalesSummary is one event's sales line on the dashboard.
type EventSalesSummary struct {
	EventID   string      `json:"event_id"`
	Title     string      `json:"title"`
	Type      string      `json:"type"`
	Date      time.Time   `json:"date"`
	Capacity  int         `json:"capacity"`
	Sold      int         `json:"sold"`
	Revenue   float64     `json:"revenue"`
	FillRate  float64     `json:"fill_rate"`
	TierSales []TierSales `json:"tier_sales,omitempty"`
}

// TierSales breaks an event's sales down per ticket category.
type TierSales struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Quota   int     `json:"quota"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// PlatformStats is the admin-wide overview.
type PlatformStats struct {
	TotalUsers        int64   `json:"total_users"`
	TotalEvents       int64   `json:"total_events"`
	TotalBookings     int64   `json:"total_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}
