package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a denormalized projection of an appointment status
// change, surfaced to both the business and the customer.
type Notification struct {
	Base
	UserID        uuid.UUID         `db:"user_id" json:"user_id"`
	AppointmentID uuid.UUID         `db:"appointment_id" json:"appointment_id"`
	Status        AppointmentStatus `db:"appointment_status" json:"appointment_status"`
	Title         string            `db:"title" json:"title"`
	Body          string            `db:"body" json:"body"`
	Read          bool              `db:"read" json:"read"`
	ReadAt        *time.Time        `db:"read_at" json:"read_at,omitempty"`
}
