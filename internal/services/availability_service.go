package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arman-d/DermaCareBack/internal/models"
	"github.com/arman-d/DermaCareBack/internal/repository"
	"github.com/arman-d/DermaCareBack/pkg/timegrid"
)

type serviceReader interface {
	GetByID(ctx context.Context, serviceID int64) (*models.ClinicService, error)
}

type reservationReader interface {
	ListReservations(ctx context.Context, doctorID int64, date time.Time) ([]repository.Reservation, error)
}

type AvailabilityService struct {
	serviceRepo serviceReader
	orderRepo   reservationReader
}

func NewAvailabilityService(serviceRepo serviceReader, orderRepo reservationReader) *AvailabilityService {
	return &AvailabilityService{
		serviceRepo: serviceRepo,
		orderRepo:   orderRepo,
	}
}

// AvailableSlots computes the bookable 12-hour labels for a doctor, service
// and date. An unknown service is an error, never defaulted; a service
// without a usable duration falls back to 50 minutes.
func (s *AvailabilityService) AvailableSlots(
	ctx context.Context,
	date time.Time,
	doctorID int64,
	serviceID int64,
) ([]string, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
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

	reservations, err := s.orderRepo.ListReservations(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	reserved := make([]timegrid.Interval, 0, len(reservations))
	for _, reservation := range reservations {
		start, err := timegrid.ParseClock(reservation.BookingTime)
		if err != nil {
			return nil, err
		}
		reservedDuration := timegrid.DefaultDurationMinutes
		if reservation.DurationMinutes != nil && *reservation.DurationMinutes > 0 {
			reservedDuration = *reservation.DurationMinutes
		}
		reserved = append(reserved, timegrid.Interval{
			Start: start,
			End:   start + timegrid.MinuteOfDay(reservedDuration),
		})
	}

	slots := timegrid.AvailableSlots(duration, reserved)
	labels := make([]string, 0, len(slots))
	for _, slot := range slots {
		labels = append(labels, slot.Label12h())
	}
	return labels, nil
}
