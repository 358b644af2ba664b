// Package booking implements the customer-side booking workflow: the
// multi-select service cart and the submission step that hands the
// completed booking to the backend's create_appointment procedure.
package booking

import (
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
)

// Selection is the ephemeral cart for one booking attempt. It keeps the
// offered services in their original list order; the selected subset
// preserves that order.
type Selection struct {
	services []model.Service
	chosen   map[uuid.UUID]bool
}

func NewSelection(services []model.Service) *Selection {
	return &Selection{
		services: services,
		chosen:   make(map[uuid.UUID]bool),
	}
}

// Toggle flips membership of the service in the selection. Unknown ids
// are ignored. There is no cardinality cap.
func (s *Selection) Toggle(serviceID uuid.UUID) {
	for _, svc := range s.services {
		if svc.ID == serviceID {
			if s.chosen[serviceID] {
				delete(s.chosen, serviceID)
			} else {
				s.chosen[serviceID] = true
			}
			return
		}
	}
}

// Selected returns the chosen services in original list order.
func (s *Selection) Selected() []model.Service {
	var out []model.Service
	for _, svc := range s.services {
		if s.chosen[svc.ID] {
			out = append(out, svc)
		}
	}
	return out
}

// SelectedIDs returns the chosen service ids in original list order.
func (s *Selection) SelectedIDs() []uuid.UUID {
	var out []uuid.UUID
	for _, svc := range s.services {
		if s.chosen[svc.ID] {
			out = append(out, svc.ID)
		}
	}
	return out
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.chosen) == 0
}

// TotalPrice sums the selected services' prices.
func (s *Selection) TotalPrice() model.Money {
	var total model.Money
	for _, svc := range s.Selected() {
		total += svc.Price
	}
	return total
}

// TotalDuration sums the selected services' durations in minutes.
func (s *Selection) TotalDuration() model.Minutes {
	var total model.Minutes
	for _, svc := range s.Selected() {
		total += svc.Duration
	}
	return total
}
