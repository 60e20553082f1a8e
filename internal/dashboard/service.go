package dashboard

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	GetOrganizerStats(ctx context.Context, organizerID uuid.UUID) (*OrganizerStats, error)
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrganizerStats(ctx context.Context, organizerID uuid.UUID) (*OrganizerStats, error) {
	return s.repo.GetOrganizerStats(ctx, organizerID)
}

func (s *service) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	return s.repo.GetPlatformStats(ctx)
}
