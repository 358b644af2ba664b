package model

import (
	"github.com/google/uuid"
)

// Service is a named, priced, timed offering a business makes available
// for booking.
type Service struct {
	Base
	BusinessID uuid.UUID `db:"business_id" json:"business_id"`
	Name       string    `db:"name" json:"name"`
	Price      Money     `db:"price" json:"price"`
	Duration   Minutes   `db:"duration" json:"duration"`
}

// ServiceDeclaration is the owner-side shape used when declaring or
// updating offerings. Price and duration validity is enforced here, at
// creation time, not again at selection time.
type ServiceDeclaration struct {
	Name     string  `json:"name" binding:"required"`
	Price    Money   `json:"price" binding:"min=0"`
	Duration Minutes `json:"duration" binding:"required,gt=0"`
}
