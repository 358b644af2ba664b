package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/schedule"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

// fetcherTTL bounds how long an idle customer's fetcher is kept.
const fetcherTTL = 30 * time.Minute

// BusinessSource resolves businesses and their precomputed open-weekday
// sets.
type BusinessSource interface {
	GetBusiness(ctx context.Context, id uuid.UUID) (*model.Business, error)
	OpenWeekdays(business *model.Business) schedule.WeekdaySet
}

// SlotService renders slot availability for eligible dates. Each
// customer gets one fetcher, so a slow response for a previously picked
// date is discarded instead of overwriting the newer date's slots.
// Fetchers for customers who stopped browsing expire.
type SlotService struct {
	businesses BusinessSource
	source     schedule.SlotSource
	interval   time.Duration
	metrics    *metrics.Metrics
	logger     *logger.Logger

	mu       sync.Mutex
	fetchers *cache.Cache
}

func NewSlotService(businesses BusinessSource, source schedule.SlotSource, interval time.Duration, m *metrics.Metrics, logger *logger.Logger) *SlotService {
	if interval <= 0 {
		interval = schedule.DefaultSlotInterval
	}
	return &SlotService{
		businesses: businesses,
		source:     source,
		interval:   interval,
		metrics:    m,
		logger:     logger,
		fetchers:   cache.New(fetcherTTL, 2*fetcherTTL),
	}
}

// GetSlots returns the partitioned day of slots for one business and
// date. The date must be selectable per the business's open weekdays;
// the busy flags come straight from the availability procedure.
func (s *SlotService) GetSlots(ctx context.Context, userID, businessID uuid.UUID, date time.Time) ([]model.TimeSlot, error) {
	business, err := s.businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, errors.NotFound("business", err)
	}

	open := s.businesses.OpenWeekdays(business)
	if !schedule.IsDateSelectable(date, open, time.Now()) {
		msg := "the business is not open on the selected date"
		if next, ok := schedule.NextSelectableDate(laterOf(date, time.Now()), open); ok {
			msg = fmt.Sprintf("%s; the next open date is %s", msg, next.Format("2006-01-02"))
		}
		return nil, errors.BadRequest(msg, nil)
	}

	window, err := schedule.NewWindow(business.OpeningTime, business.ClosingTime, s.interval)
	if err != nil {
		return nil, errors.BadRequest("the business has invalid opening hours", err)
	}

	slots, err := s.fetcherFor(userID).Fetch(ctx, businessID, date, window)
	if err == schedule.ErrStaleResponse {
		s.metrics.SlotFetchesStale.Inc()
		return nil, errors.Conflict("a newer availability request superseded this one")
	}
	if err != nil {
		s.metrics.SlotFetches.WithLabelValues("error").Inc()
		s.logger.Error(err, "availability fetch failed",
			"business_id", businessID.String(),
			"date", date.Format("2006-01-02"))
		return nil, errors.Remote("could not load availability", err)
	}

	if want := window.SlotCount(); len(slots) != want {
		s.logger.Warn("availability grid size mismatch",
			"business_id", businessID.String(),
			"want", want,
			"got", len(slots))
	}

	s.metrics.SlotFetches.WithLabelValues("success").Inc()
	return slots, nil
}

func (s *SlotService) fetcherFor(userID uuid.UUID) *schedule.Fetcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID.String()
	if cached, ok := s.fetchers.Get(key); ok {
		f := cached.(*schedule.Fetcher)
		s.fetchers.SetDefault(key, f)
		return f
	}
	f := schedule.NewFetcher(s.source)
	s.fetchers.SetDefault(key, f)
	return f
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
