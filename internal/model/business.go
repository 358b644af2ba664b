package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Business is a provider account with declared offerings, open days and
// working hours. Rows live in the backend's business_services table.
type Business struct {
	Base
	OwnerID     uuid.UUID      `db:"user_id" json:"user_id"`
	Name        string         `db:"name" json:"name"`
	Phone       string         `db:"phone" json:"phone"`
	ServiceType string         `db:"service_type" json:"service_type"`
	Address     string         `db:"business_address" json:"business_address"`
	DaysOpen    pq.StringArray `db:"business_days" json:"business_days"`
	OpeningTime string         `db:"opening_time" json:"opening_time"`
	ClosingTime string         `db:"closing_time" json:"closing_time"`

	// Populated from the services table on detail reads.
	Services []Service `db:"-" json:"services,omitempty"`
}

// ParseHours returns the opening and closing wall-clock times. The
// backend stores them as "HH:MM" strings and does not guarantee
// open < close; callers decide whether to warn.
func (b *Business) ParseHours() (open, close time.Time, err error) {
	open, err = time.Parse("15:04", b.OpeningTime)
	if err != nil {
		return
	}
	close, err = time.Parse("15:04", b.ClosingTime)
	return
}

type SaveBusinessServicesRequest struct {
	ServiceType string               `json:"service_type" binding:"required"`
	Address     string               `json:"business_address" binding:"required"`
	Days        []string             `json:"business_days" binding:"required,min=1"`
	OpeningTime string               `json:"opening_time" binding:"required,wallclock"`
	ClosingTime string               `json:"closing_time" binding:"required,wallclock"`
	Services    []ServiceDeclaration `json:"services" binding:"required,min=1,dive"`
}

// SaveBusinessServicesResult mirrors the row returned by the
// save_business_services procedure.
type SaveBusinessServicesResult struct {
	ServiceID     string `db:"service_id" json:"service_id"`
	ServicesCount int    `db:"services_count" json:"services_count"`
	IsUpdate      bool   `db:"is_update" json:"is_update"`
}
