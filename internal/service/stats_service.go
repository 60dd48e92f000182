package service

import (
	"context"

	"smartinvoice/internal/aggregate"
	"smartinvoice/internal/domain"
	"smartinvoice/internal/port"
)

// StatsService defines the dashboard aggregation contract.
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type statsService struct {
	repo port.RecordRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(repo port.RecordRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Compute(records)
}
