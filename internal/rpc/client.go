// Package rpc invokes the backend's named procedures. The procedures are
// the authority on slot availability, booking conflicts and appointment
// status transitions; nothing in this package re-implements that logic,
// it only calls by name and validates the response shape at the boundary.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// ErrBadResponse marks a procedure response that did not match the
// expected shape. Callers treat it as terminal for the attempt.
type ErrBadResponse struct {
	Procedure string
	Reason    string
}

func (e *ErrBadResponse) Error() string {
	return fmt.Sprintf("%s returned an unexpected response: %s", e.Procedure, e.Reason)
}

type Client struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewClient(db *sqlx.DB, logger *logger.Logger) *Client {
	return &Client{db: db, logger: logger}
}

// GetAccurateTimeSlots asks the backend for the partitioned day of slots
// for one business and date. The procedure consults existing
// appointments server-side; the returned busy flags are taken as-is.
func (c *Client) GetAccurateTimeSlots(ctx context.Context, businessID uuid.UUID, date time.Time, openTime, closeTime string, intervalMinutes int) ([]model.TimeSlot, error) {
	query := `
		SELECT time_slot, is_available, status
		FROM get_accurate_time_slots($1, $2, $3, $4, $5)
	`
	var slots []model.TimeSlot
	err := c.db.SelectContext(ctx, &slots, query,
		businessID,
		date.Format(dateLayout),
		openTime,
		closeTime,
		intervalMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to call get_accurate_time_slots: %w", err)
	}

	for i, s := range slots {
		if s.Time == "" {
			return nil, &ErrBadResponse{
				Procedure: "get_accurate_time_slots",
				Reason:    fmt.Sprintf("row %d has an empty time_slot", i),
			}
		}
	}
	return slots, nil
}

// CreateAppointment submits a booking. The procedure is the sole arbiter
// of double-booking conflicts and assigns the initial status.
func (c *Client) CreateAppointment(ctx context.Context, businessID, customerID uuid.UUID, date time.Time, timeStr string, serviceIDs []uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, business_id, customer_id, date, time, status,
		       total_price, total_duration, created_at, updated_at
		FROM create_appointment($1, $2, $3, $4, $5)
	`
	ids := make([]string, len(serviceIDs))
	for i, id := range serviceIDs {
		ids[i] = id.String()
	}

	var apt model.Appointment
	err := c.db.GetContext(ctx, &apt, query,
		businessID,
		customerID,
		date.Format(dateLayout),
		timeStr,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to call create_appointment: %w", err)
	}

	if apt.ID == uuid.Nil {
		return nil, &ErrBadResponse{
			Procedure: "create_appointment",
			Reason:    "missing appointment id",
		}
	}
	if apt.Status == "" {
		return nil, &ErrBadResponse{
			Procedure: "create_appointment",
			Reason:    "missing appointment status",
		}
	}
	return &apt, nil
}

// SaveBusinessServices declares or updates a business's offerings, open
// days and hours in one call.
func (c *Client) SaveBusinessServices(ctx context.Context, userID uuid.UUID, req *model.SaveBusinessServicesRequest) (*model.SaveBusinessServicesResult, error) {
	services, err := json.Marshal(req.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to encode services: %w", err)
	}

	query := `
		SELECT service_id, services_count, is_update
		FROM save_business_services($1, $2, $3, $4, $5, $6, $7)
	`
	var result model.SaveBusinessServicesResult
	err = c.db.GetContext(ctx, &result, query,
		userID,
		req.ServiceType,
		req.Address,
		pq.Array(req.Days),
		req.OpeningTime,
		req.ClosingTime,
		services,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to call save_business_services: %w", err)
	}

	if result.ServiceID == "" {
		return nil, &ErrBadResponse{
			Procedure: "save_business_services",
			Reason:    "missing service_id",
		}
	}
	return &result, nil
}
