package repository

import (
	"context"

	"github.com/arman-d/DermaCareBack/internal/models"
)

type ServiceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetByID(ctx context.Context, serviceID int64) (*models.ClinicService, error) {
	query := `
		SELECT id, category_id, name, duration_minutes, price, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service models.ClinicService
	err := r.db.QueryRow(ctx, query, serviceID).Scan(
		&service.ID,
		&service.CategoryID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &service, nil
}
