package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arman-d/DermaCareBack/internal/cache"
	"github.com/arman-d/DermaCareBack/internal/models"
	"github.com/arman-d/DermaCareBack/internal/repository"
	"github.com/arman-d/DermaCareBack/pkg/timegrid"
)

type OrderService struct {
	db          *pgxpool.Pool
	orderRepo   *repository.OrderRepository
	sessionRepo *repository.SessionRepository
	serviceRepo serviceReader
	cache       cache.CacheService
}

func NewOrderService(
	db *pgxpool.Pool,
	orderRepo *repository.OrderRepository,
	sessionRepo *repository.SessionRepository,
	serviceRepo serviceReader,
	cacheSvc cache.CacheService,
) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
		serviceRepo: serviceRepo,
		cache:       cacheSvc,
	}
}

type BookOrderInput struct {
	CustomerID   int64
	ServiceID    int64
	DoctorID     *int64
	BookingDate  time.Time
	BookingTime  string
	SessionCount int
}

// BookOrder creates an order and its session rows in one transaction. The
// availability read a customer saw earlier is not atomic with this write,
// so non-overlap is re-verified here under a doctor-scoped advisory lock;
// the loser of a slot race gets ErrConflict and must re-query.
func (s *OrderService) BookOrder(ctx context.Context, input BookOrderInput) (*models.OrderDetail, error) {
	if input.CustomerID <= 0 || input.ServiceID <= 0 || input.SessionCount <= 0 {
		return nil, ErrInvalidInput
	}
	if input.BookingDate.IsZero() {
		return nil, ErrInvalidInput
	}
	startMinute, err := timegrid.ParseClock(input.BookingTime)
	if err != nil {
		return nil, ErrInvalidInput
	}

	service, err := s.serviceRepo.GetByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	duration := timegrid.DefaultDurationMinutes
	if service.DurationMinutes != nil && *service.DurationMinutes > 0 {
		duration = *service.DurationMinutes
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txOrderRepo := repository.NewOrderRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	if input.DoctorID != nil {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", *input.DoctorID); err != nil {
			return nil, err
		}

		hasConflict, err := txOrderRepo.HasConflict(
			ctx,
			*input.DoctorID,
			input.BookingDate,
			int(startMinute),
			duration,
		)
		if err != nil {
			return nil, err
		}
		if hasConflict {
			return nil, ErrConflict
		}
	}

	order, err := txOrderRepo.Create(ctx, repository.CreateOrderInput{
		CustomerID:   input.CustomerID,
		ServiceID:    input.ServiceID,
		DoctorID:     input.DoctorID,
		BookingDate:  input.BookingDate,
		BookingTime:  input.BookingTime,
		SessionCount: input.SessionCount,
	})
	if err != nil {
		return nil, err
	}

	// One row per purchased session. The first occurrence takes the booked
	// slot; the rest stay pending until rescheduled.
	drafts := make([]repository.CreateSessionInput, 0, input.SessionCount)
	for number := 1; number <= input.SessionCount; number++ {
		status := models.SessionStatusPending
		if number == 1 {
			status = models.SessionStatusScheduled
		}
		drafts = append(drafts, repository.CreateSessionInput{
			SessionNumber: number,
			ScheduledDate: input.BookingDate,
			ScheduledTime: input.BookingTime,
			Status:        status,
		})
	}

	sessions, err := txSessionRepo.BulkCreate(ctx, order.ID, drafts)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.PrefixOrders, cache.PrefixSessions)

	return &models.OrderDetail{Order: *order, Sessions: sessions}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &models.OrderDetail{Order: *order, Sessions: sessions}, nil
}

// UpdateStatus moves an order through its lifecycle. Terminal orders admit
// no further transitions.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	orderID int64,
	requestedStatus string,
) (*models.Order, error) {
	nextStatus, err := normalizeOrderStatus(requestedStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, ErrInvalidStateTransition
	}
	if nextStatus == models.OrderStatusConfirmed && order.Status != models.OrderStatusPending {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, nextStatus)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.PrefixOrders)

	return updated, nil
}

func normalizeOrderStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return models.OrderStatusPending, nil
	case "confirm", "confirmed":
		return models.OrderStatusConfirmed, nil
	case "complete", "completed":
		return models.OrderStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.OrderStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
