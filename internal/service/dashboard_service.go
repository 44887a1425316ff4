package service

import (
	"context"
	"fmt"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

const (
	dashboardRecentLimit = 5
	networkCountsKey     = cache.PrefixStats + "network"
)

// DashboardService network overview for the signed-in member
type DashboardService interface {
	Stats(ctx context.Context, callerID string) (*domain.DashboardStats, error)
}

type dashboardService struct {
	profileRepo repository.ProfileRepository
	jobRepo     repository.JobRepository
	connRepo    repository.ConnectionRepository
	messageRepo repository.MessageRepository
	cache       cache.Service
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	profileRepo repository.ProfileRepository,
	jobRepo repository.JobRepository,
	connRepo repository.ConnectionRepository,
	messageRepo repository.MessageRepository,
	cacheService cache.Service,
) DashboardService {
	return &dashboardService{
		profileRepo: profileRepo,
		jobRepo:     jobRepo,
		connRepo:    connRepo,
		messageRepo: messageRepo,
		cache:       cacheService,
	}
}

// Stats builds the dashboard. Global counters are cached briefly; per-caller numbers never are.
func (s *dashboardService) Stats(ctx context.Context, callerID string) (*domain.DashboardStats, error) {
	if callerID == "" {
		return nil, common.ErrNoSession
	}

	counts, err := s.networkCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		AlumniCount:  counts.AlumniCount,
		StudentCount: counts.StudentCount,
		ActiveJobs:   counts.ActiveJobs,
	}

	if stats.Connections, err = s.connRepo.CountAccepted(ctx, callerID); err != nil {
		return nil, fmt.Errorf("count connections: %w", err)
	}
	if stats.PendingInbound, err = s.connRepo.CountPendingFor(ctx, callerID); err != nil {
		return nil, fmt.Errorf("count pending requests: %w", err)
	}
	if stats.UnreadMessages, err = s.messageRepo.CountUnreadFor(ctx, callerID); err != nil {
		return nil, fmt.Errorf("count unread messages: %w", err)
	}

	recent, err := s.profileRepo.Recent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent profiles: %w", err)
	}
	stats.RecentProfiles = make([]*domain.Profile, len(recent))
	for i, p := range recent {
		stats.RecentProfiles[i] = p.ApplyVisibility(callerID)
	}

	jobs, _, err := s.jobRepo.ListActive(ctx, domain.JobQuery{Page: 1, PerPage: dashboardRecentLimit})
	if err != nil {
		return nil, fmt.Errorf("recent jobs: %w", err)
	}
	stats.RecentJobs = jobs
	return stats, nil
}

func (s *dashboardService) networkCounts(ctx context.Context) (*domain.NetworkCounts, error) {
	var counts domain.NetworkCounts
	if err := s.cache.Get(ctx, networkCountsKey, &counts); err == nil {
		return &counts, nil
	}

	var err error
	if counts.AlumniCount, err = s.profileRepo.CountVisibleByRole(ctx, domain.RoleAlumni); err != nil {
		return nil, fmt.Errorf("count alumni: %w", err)
	}
	if counts.StudentCount, err = s.profileRepo.CountVisibleByRole(ctx, domain.RoleStudent); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	if counts.ActiveJobs, err = s.jobRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	if err := s.cache.Set(ctx, networkCountsKey, &counts, cache.TTLStats); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("stats cache write failed")
	}
	return &counts, nil
}
