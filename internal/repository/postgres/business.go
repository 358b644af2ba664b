package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
)

type businessRepository struct {
	BaseRepository
}

func NewBusinessRepository(base BaseRepository) repository.BusinessRepository {
	return &businessRepository{base}
}

func (r *businessRepository) Get(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	query := `
		SELECT id, user_id, name, phone, service_type, business_address,
		       business_days, opening_time, closing_time,
		       created_at, updated_at
		FROM business_services
		WHERE id = $1
	`
	var business model.Business
	err := r.db.GetContext(ctx, &business, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("business not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return &business, nil
}

func (r *businessRepository) List(ctx context.Context) ([]*model.Business, error) {
	query := `
		SELECT id, user_id, name, phone, service_type, business_address,
		       business_days, opening_time, closing_time,
		       created_at, updated_at
		FROM business_services
		ORDER BY name
	`
	var businesses []*model.Business
	if err := r.db.SelectContext(ctx, &businesses, query); err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return businesses, nil
}

func (r *businessRepository) ListServices(ctx context.Context, businessID uuid.UUID) ([]model.Service, error) {
	query := `
		SELECT id, business_id, name, price, duration, created_at, updated_at
		FROM services
		WHERE business_id = $1
		ORDER BY created_at
	`
	var services []model.Service
	if err := r.db.SelectContext(ctx, &services, query, businessID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
