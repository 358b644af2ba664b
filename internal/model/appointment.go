package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusMissed      AppointmentStatus = "missed"
	AppointmentStatusIncompleted AppointmentStatus = "incompleted"
)

// Terminal reports whether no further transition can leave this status.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusMissed, AppointmentStatusIncompleted:
		return true
	}
	return false
}

// Appointment links one customer, one business, a date/time and one or
// more services. Created through the create_appointment procedure; the
// initial status is assigned server-side.
type Appointment struct {
	Base
	BusinessID    uuid.UUID         `db:"business_id" json:"business_id"`
	CustomerID    uuid.UUID         `db:"customer_id" json:"customer_id"`
	Date          time.Time         `db:"date" json:"date"`
	Time          string            `db:"time" json:"time"`
	Status        AppointmentStatus `db:"status" json:"status"`
	TotalPrice    Money             `db:"total_price" json:"total_price"`
	TotalDuration Minutes           `db:"total_duration" json:"total_duration"`

	// Joined from appointment_services, in booking order.
	Services []Service `db:"-" json:"services,omitempty"`
}

type CreateAppointmentRequest struct {
	BusinessID uuid.UUID   `json:"business_id" binding:"required"`
	Date       string      `json:"date" binding:"required,datetime=2006-01-02"`
	Time       string      `json:"time" binding:"required,wallclock"`
	ServiceIDs []uuid.UUID `json:"service_ids" binding:"required,min=1"`
}

type AppointmentFilters struct {
	BusinessID uuid.UUID
	CustomerID uuid.UUID
	Status     AppointmentStatus
	StartDate  time.Time
	EndDate    time.Time
}
