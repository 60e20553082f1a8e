package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetOrganizerStats(ctx context.Context, organizerID uuid.UUID) (*OrganizerStats, error)
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrganizerStats(ctx context.Context, organizerID uuid.UUID) (*OrganizerStats, error) {
	stats := &OrganizerStats{}
	db := r.db.WithContext(ctx)

	err := db.Table("events").
		Where("organizer_id = ?", organizerID).
		Count(&stats.TotalEvents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	err = db.Table("events").
		Where("organizer_id = ? AND status = ?", organizerID, "active").
		Count(&stats.ActiveEvents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active events: %w", err)
	}

	err = db.Table("bookings b").
		Joins("JOIN events e ON e.id = b.event_id").
		Where("e.organizer_id = ? AND b.status <> ?", organizerID, "cancelled").
		Select("COALESCE(SUM(b.quantity), 0)").
		Scan(&stats.TicketsSold).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum tickets sold: %w", err)
	}

	err = db.Table("bookings b").
		Joins("JOIN events e ON e.id = b.event_id").
		Where("e.organizer_id = ? AND b.status <> ?", organizerID, "cancelled").
		Select("COALESCE(SUM(b.total_price), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	breakdown, err := r.getEventBreakdown(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	stats.EventBreakdown = breakdown

	return stats, nil
}

func (r *repository) getEventBreakdown(ctx context.Context, organizerID uuid.UUID) ([]EventSalesSummary, error) {
	var rows []struct {
		EventID  uuid.UUID `gorm:"column:event_id"`
		Title    string
		Type     string
		Date     time.Time
		Capacity int
		Sold     int
		Revenue  float64
	}

	err := r.db.WithContext(ctx).
		Table("events e").
		Select(`e.id as event_id, e.title, e.type, e.date, e.capacity, e.sold,
			COALESCE((SELECT SUM(b.total_price) FROM bookings b
				WHERE b.event_id = e.id AND b.status <> 'cancelled'), 0) as revenue`).
		Where("e.organizer_id = ?", organizerID).
		Order("e.date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load event breakdown: %w", err)
	}

	summaries := make([]EventSalesSummary, 0, len(rows))
	for _, row := range rows {
		summary := EventSalesSummary{
			EventID:  row.EventID.String(),
			Title:    row.Title,
			Type:     row.Type,
			Date:     row.Date,
			Capacity: row.Capacity,
			Sold:     row.Sold,
			Revenue:  row.Revenue,
		}
		if row.Capacity > 0 {
			summary.FillRate = float64(row.Sold) / float64(row.Capacity)
		}

		var tierRows []TierSales
		err := r.db.WithContext(ctx).
			Table("ticket_types").
			Select("name, price, quota, sold, price * sold as revenue").
			Where("event_id = ?", row.EventID).
			Order("price ASC").
			Scan(&tierRows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load tier sales: %w", err)
		}
		summary.TierSales = tierRows

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *repository) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	db := r.db.WithContext(ctx)

	if err := db.Table("users").Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Table("events").Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Table("bookings").Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}
	if err := db.Table("bookings").Where("status = ?", "cancelled").Count(&stats.CancelledBookings).Error; err != nil {
		return nil, err
	}
	err := db.Table("bookings").
		Where("status <> ?", "cancelled").
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
