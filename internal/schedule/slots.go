package schedule

import (
	"fmt"
	"time"

	"github.com/bookline/booking-api/internal/model"
)

const wallClockLayout = "15:04"

// DefaultSlotInterval is the fallback slot granularity.
const DefaultSlotInterval = 30 * time.Minute

// Window describes one business day's bookable span.
type Window struct {
	Open     string
	Close    string
	Interval time.Duration
}

// NewWindow validates the open/close wall-clock strings and applies the
// default interval when none is configured.
func NewWindow(open, close string, interval time.Duration) (Window, error) {
	if interval <= 0 {
		interval = DefaultSlotInterval
	}
	o, err := time.Parse(wallClockLayout, open)
	if err != nil {
		return Window{}, fmt.Errorf("invalid opening time %q: %w", open, err)
	}
	c, err := time.Parse(wallClockLayout, close)
	if err != nil {
		return Window{}, fmt.Errorf("invalid closing time %q: %w", close, err)
	}
	if !o.Before(c) {
		return Window{}, fmt.Errorf("opening time %q must precede closing time %q", open, close)
	}
	return Window{Open: open, Close: close, Interval: interval}, nil
}

// SlotCount is the number of slots the availability procedure is
// expected to return for this window.
func (w Window) SlotCount() int {
	o, _ := time.Parse(wallClockLayout, w.Open)
	c, _ := time.Parse(wallClockLayout, w.Close)
	if !o.Before(c) {
		return 0
	}
	return int(c.Sub(o) / w.Interval)
}

// IntervalMinutes is the interval in whole minutes, the unit the
// availability procedure takes.
func (w Window) IntervalMinutes() int {
	return int(w.Interval / time.Minute)
}

// Picker renders one date's slots and tracks the single selected slot.
// Selecting a new slot replaces any previous selection.
type Picker struct {
	slots    []model.TimeSlot
	selected int
}

func NewPicker(slots []model.TimeSlot) *Picker {
	return &Picker{slots: slots, selected: -1}
}

// Slots returns the rendered slots in backend order.
func (p *Picker) Slots() []model.TimeSlot {
	return p.slots
}

// Select marks the slot at index i as the chosen one. Busy slots are
// not selectable.
func (p *Picker) Select(i int) error {
	if i < 0 || i >= len(p.slots) {
		return fmt.Errorf("slot index %d out of range", i)
	}
	if !p.slots[i].Available {
		return fmt.Errorf("slot %s is not available", p.slots[i].Time)
	}
	p.selected = i
	return nil
}

// Selected returns the chosen slot, if any.
func (p *Picker) Selected() (model.TimeSlot, bool) {
	if p.selected < 0 {
		return model.TimeSlot{}, false
	}
	return p.slots[p.selected], true
}

// SelectableCount is the number of tappable (non-busy) slots.
func (p *Picker) SelectableCount() int {
	n := 0
	for _, s := range p.slots {
		if s.Available {
			n++
		}
	}
	return n
}
