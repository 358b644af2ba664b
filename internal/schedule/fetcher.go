package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
)

// ErrStaleResponse marks an availability response that arrived after a
// newer fetch was issued. It is discarded, never rendered.
var ErrStaleResponse = errors.New("availability response superseded by a newer request")

// SlotSource is the opaque backend procedure that owns conflict
// detection.
type SlotSource interface {
	GetAccurateTimeSlots(ctx context.Context, businessID uuid.UUID, date time.Time, openTime, closeTime string, intervalMinutes int) ([]model.TimeSlot, error)
}

// Fetcher serializes slot rendering for one picker. Each Fetch bumps a
// request generation; only the response matching the latest generation
// is applied, so a slow response for a previously selected date can
// never overwrite the slots of the date picked after it.
type Fetcher struct {
	source SlotSource

	mu      sync.Mutex
	gen     uint64
	current []model.TimeSlot
}

func NewFetcher(source SlotSource) *Fetcher {
	return &Fetcher{source: source}
}

// Fetch requests the slot list for one date. On backend failure the
// rendered list is cleared and the error returned; no retry is
// attempted.
func (f *Fetcher) Fetch(ctx context.Context, businessID uuid.UUID, date time.Time, w Window) ([]model.TimeSlot, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	slots, err := f.source.GetAccurateTimeSlots(ctx, businessID, date, w.Open, w.Close, w.IntervalMinutes())

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		return nil, ErrStaleResponse
	}
	if err != nil {
		f.current = nil
		return nil, err
	}
	f.current = slots
	return slots, nil
}

// Current returns the slots of the most recent successful fetch.
func (f *Fetcher) Current() []model.TimeSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
