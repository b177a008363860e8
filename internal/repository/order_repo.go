package repository

import (
	"context"
	"time"

	"github.com/arman-d/DermaCareBack/internal/models"
)

type CreateOrderInput struct {
	CustomerID   int64
	ServiceID    int64
	DoctorID     *int64
	BookingDate  time.Time
	BookingTime  string
	SessionCount int
}

// Reservation is an existing booking projected to its start time and
// service duration, as needed for availability computation.
type Reservation struct {
	BookingTime     string
	DurationMinutes *int
}

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, customer_id, service_id, doctor_id, booking_date, booking_time::text, session_count, status, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.ServiceID,
		&order.DoctorID,
		&order.BookingDate,
		&order.BookingTime,
		&order.SessionCount,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	query := `
		INSERT INTO orders (customer_id, service_id, doctor_id, booking_date, booking_time, session_count, status)
		VALUES ($1, $2, $3, $4, $5::time, $6, 'pending')
		RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(
		ctx,
		query,
		input.CustomerID,
		input.ServiceID,
		input.DoctorID,
		input.BookingDate,
		input.BookingTime,
		input.SessionCount,
	))
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, orderID))
}

// ListReservations returns the doctor's active bookings for a date, each
// joined with its service duration. Cancelled and completed orders do not
// reserve time.
func (r *OrderRepository) ListReservations(
	ctx context.Context,
	doctorID int64,
	date time.Time,
) ([]Reservation, error) {
	query := `
		SELECT o.booking_time::text, s.duration_minutes
		FROM orders o
		LEFT JOIN services s ON s.id = o.service_id
		WHERE o.doctor_id = $1
		  AND o.booking_date = $2
		  AND o.status IN ('pending', 'confirmed')
		ORDER BY o.booking_time ASC, o.id ASC
	`
	rows, err := r.db.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]Reservation, 0)
	for rows.Next() {
		var reservation Reservation
		if err := rows.Scan(&reservation.BookingTime, &reservation.DurationMinutes); err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

// HasConflict reports whether any active booking for the doctor and date
// overlaps the half-open candidate interval starting at startMinute.
func (r *OrderRepository) HasConflict(
	ctx context.Context,
	doctorID int64,
	date time.Time,
	startMinute int,
	durationMinutes int,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			LEFT JOIN services s ON s.id = o.service_id
			WHERE o.doctor_id = $1
			  AND o.booking_date = $2
			  AND o.status IN ('pending', 'confirmed')
			  AND (EXTRACT(EPOCH FROM o.booking_time) / 60)::int < $3 + $4
			  AND (EXTRACT(EPOCH FROM o.booking_time) / 60)::int + COALESCE(NULLIF(s.duration_minutes, 0), 50) > $3
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, doctorID, date, startMinute, durationMinutes).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}

func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	orderID int64,
	status string,
) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, orderID, status))
}
