package services

import (
	"context"
	"strings"
	"time"

	"github.com/arman-d/DermaCareBack/internal/cache"
	"github.com/arman-d/DermaCareBack/internal/models"
	"github.com/arman-d/DermaCareBack/internal/repository"
	"github.com/arman-d/DermaCareBack/pkg/timegrid"
)

type sessionStore interface {
	ListByOrder(ctx context.Context, orderID int64) ([]models.OrderSession, error)
	GetByID(ctx context.Context, orderID, sessionID int64) (*models.OrderSession, error)
	BulkCreate(ctx context.Context, orderID int64, drafts []repository.CreateSessionInput) ([]models.OrderSession, error)
	UpdateFields(ctx context.Context, orderID, sessionID int64, patch repository.SessionPatch) (*models.OrderSession, error)
}

type orderReader interface {
	GetByID(ctx context.Context, orderID int64) (*models.Order, error)
}

type SessionService struct {
	sessionRepo sessionStore
	orderRepo   orderReader
	cache       cache.CacheService
}

func NewSessionService(
	sessionRepo sessionStore,
	orderRepo orderReader,
	cacheSvc cache.CacheService,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		orderRepo:   orderRepo,
		cache:       cacheSvc,
	}
}

// ListSessions returns an order's sessions ordered by session number.
func (s *SessionService) ListSessions(ctx context.Context, orderID int64) ([]models.OrderSession, error) {
	if orderID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByOrder(ctx, orderID)
}

type SessionDraft struct {
	ScheduledDate string  `json:"scheduled_date"`
	ScheduledTime string  `json:"scheduled_time"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
	ExpiresAt     *string `json:"expires_at"`
}

// BulkCreateSessions attaches the order id to every draft and inserts them.
// Session numbers continue the order's existing sequence. An empty draft
// list is a client error.
func (s *SessionService) BulkCreateSessions(
	ctx context.Context,
	orderID int64,
	drafts []SessionDraft,
) ([]models.OrderSession, error) {
	if orderID <= 0 || len(drafts) == 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	existing, err := s.sessionRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	nextNumber := len(existing) + 1

	inputs := make([]repository.CreateSessionInput, 0, len(drafts))
	for _, draft := range drafts {
		scheduledDate, err := time.Parse("2006-01-02", strings.TrimSpace(draft.ScheduledDate))
		if err != nil {
			return nil, ErrInvalidInput
		}
		if _, err := timegrid.ParseClock(draft.ScheduledTime); err != nil {
			return nil, ErrInvalidInput
		}

		status := models.SessionStatusScheduled
		if draft.Status != nil {
			status, err = normalizeSessionStatus(*draft.Status)
			if err != nil {
				return nil, err
			}
		}

		var expiresAt *time.Time
		if draft.ExpiresAt != nil {
			parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*draft.ExpiresAt))
			if err != nil {
				return nil, ErrInvalidInput
			}
			expiresAt = &parsed
		}

		inputs = append(inputs, repository.CreateSessionInput{
			SessionNumber: nextNumber,
			ScheduledDate: scheduledDate,
			ScheduledTime: strings.TrimSpace(draft.ScheduledTime),
			Status:        status,
			Notes:         draft.Notes,
			ExpiresAt:     expiresAt,
		})
		nextNumber++
	}

	created, err := s.sessionRepo.BulkCreate(ctx, orderID, inputs)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.PrefixSessions)

	return created, nil
}

// SessionPatchInput carries the whitelisted patch fields as submitted.
// Anything outside the whitelist was already dropped at the JSON boundary.
type SessionPatchInput struct {
	ScheduledDate *string
	ScheduledTime *string
	Status        *string
	AttendedDate  *string
	Notes         *string
	ExpiresAt     *string
	// AdminOverride permits transitions out of a terminal status.
	AdminOverride bool
}

func (p SessionPatchInput) isEmpty() bool {
	return p.ScheduledDate == nil &&
		p.ScheduledTime == nil &&
		p.Status == nil &&
		p.AttendedDate == nil &&
		p.Notes == nil &&
		p.ExpiresAt == nil
}

// PatchSession applies a whitelisted partial update to one session, scoped
// by both session id and owning order id. Status transitions are monotonic
// toward a terminal state; only non-terminal sessions may be rescheduled.
func (s *SessionService) PatchSession(
	ctx context.Context,
	orderID int64,
	sessionID int64,
	input SessionPatchInput,
) (*models.OrderSession, error) {
	if orderID <= 0 || sessionID <= 0 {
		return nil, ErrInvalidInput
	}
	if input.isEmpty() {
		return nil, ErrInvalidInput
	}

	current, err := s.sessionRepo.GetByID(ctx, orderID, sessionID)
	if err != nil {
		return nil, err
	}

	patch, err := buildSessionPatch(input)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalSessionStatus(current.Status) && !input.AdminOverride {
		return nil, ErrInvalidStateTransition
	}
	if patch.Status != nil && *patch.Status == current.Status {
		// Same-status writes are harmless no-ops.
		patch.Status = nil
		if patch.IsEmpty() {
			return current, nil
		}
	}

	updated, err := s.sessionRepo.UpdateFields(ctx, orderID, sessionID, patch)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.PrefixSessions)

	return updated, nil
}

func buildSessionPatch(input SessionPatchInput) (repository.SessionPatch, error) {
	var patch repository.SessionPatch

	if input.ScheduledDate != nil {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*input.ScheduledDate))
		if err != nil {
			return patch, ErrInvalidInput
		}
		patch.ScheduledDate = &parsed
	}
	if input.ScheduledTime != nil {
		trimmed := strings.TrimSpace(*input.ScheduledTime)
		if _, err := timegrid.ParseClock(trimmed); err != nil {
			return patch, ErrInvalidInput
		}
		patch.ScheduledTime = &trimmed
	}
	if input.Status != nil {
		status, err := normalizeSessionStatus(*input.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	if input.AttendedDate != nil {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*input.AttendedDate))
		if err != nil {
			return patch, ErrInvalidInput
		}
		patch.AttendedDate = &parsed
	}
	if input.Notes != nil {
		patch.Notes = input.Notes
	}
	if input.ExpiresAt != nil {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*input.ExpiresAt))
		if err != nil {
			return patch, ErrInvalidInput
		}
		patch.ExpiresAt = &parsed
	}
	return patch, nil
}

func normalizeSessionStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "scheduled":
		return models.SessionStatusScheduled, nil
	case "pending":
		return models.SessionStatusPending, nil
	case "complete", "completed":
		return models.SessionStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.SessionStatusCancelled, nil
	case "expired":
		return models.SessionStatusExpired, nil
	case "missed":
		return models.SessionStatusMissed, nil
	default:
		return "", ErrInvalidStatus
	}
}
