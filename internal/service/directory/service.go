package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/internal/rpc"
	"github.com/bookline/booking-api/internal/schedule"
	"github.com/bookline/booking-api/pkg/logger"
)

const (
	businessListKey = "businesses"
	cleanupInterval = 10 * time.Minute
)

// Service serves the business/service directory: pure reads over the
// backend's tables, plus the owner-side save_business_services call.
type Service struct {
	repo   repository.BusinessRepository
	rpc    *rpc.Client
	cache  *gocache.Cache
	logger *logger.Logger
}

func NewService(repo repository.BusinessRepository, rpcClient *rpc.Client, cacheTTL time.Duration, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		rpc:    rpcClient,
		cache:  gocache.New(cacheTTL, cleanupInterval),
		logger: logger,
	}
}

// ListBusinesses returns the directory, cached between refreshes.
func (s *Service) ListBusinesses(ctx context.Context) ([]*model.Business, error) {
	if cached, ok := s.cache.Get(businessListKey); ok {
		return cached.([]*model.Business), nil
	}

	businesses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}

	for _, b := range businesses {
		s.checkDataQuality(b)
	}

	s.cache.SetDefault(businessListKey, businesses)
	return businesses, nil
}

// GetBusiness returns one business with its offered services.
func (s *Service) GetBusiness(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	business, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	services, err := s.repo.ListServices(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get business services: %w", err)
	}
	business.Services = services

	s.checkDataQuality(business)
	return business, nil
}

// OpenWeekdays derives the eligible weekday set for a business, cached
// per business id.
func (s *Service) OpenWeekdays(business *model.Business) schedule.WeekdaySet {
	key := "weekdays:" + business.ID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(schedule.WeekdaySet)
	}

	set, unrecognized := schedule.EligibleWeekdays(business.DaysOpen)
	if len(unrecognized) > 0 {
		s.logger.Warn("business declares unrecognized weekday names",
			"business_id", business.ID.String(),
			"names", unrecognized)
	}

	s.cache.SetDefault(key, set)
	return set
}

// SaveServices declares or updates the caller's offerings through the
// backend procedure, then drops stale cache entries.
func (s *Service) SaveServices(ctx context.Context, userID uuid.UUID, req *model.SaveBusinessServicesRequest) (*model.SaveBusinessServicesResult, error) {
	result, err := s.rpc.SaveBusinessServices(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to save business services: %w", err)
	}

	// The procedure may have changed offerings and open days; the
	// business id behind the weekday cache key is not known here, so
	// drop everything.
	s.cache.Flush()
	return result, nil
}

// checkDataQuality logs hour and weekday anomalies the backend does not
// validate. Nothing is surfaced to users.
func (s *Service) checkDataQuality(b *model.Business) {
	open, close, err := b.ParseHours()
	if err != nil {
		s.logger.Warn("business has unparseable hours",
			"business_id", b.ID.String(),
			"opening_time", b.OpeningTime,
			"closing_time", b.ClosingTime)
		return
	}
	if !open.Before(close) {
		s.logger.Warn("business opening time does not precede closing time",
			"business_id", b.ID.String(),
			"opening_time", b.OpeningTime,
			"closing_time", b.ClosingTime)
	}
}
