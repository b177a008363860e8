package services

import (
	"context"
	"fmt"
	"time"

	"github.com/arman-d/DermaCareBack/internal/cache"
	"github.com/arman-d/DermaCareBack/internal/models"
)

// DefaultSweepMaxAgeDays bounds how far back the auto-completion sweep
// looks. Sessions older than the window are never silently resurrected as
// completed.
const DefaultSweepMaxAgeDays = 60

type overdueSessionStore interface {
	ListOverdue(ctx context.Context, today, cutoff time.Time) ([]models.OrderSession, error)
	CompleteEligible(ctx context.Context, sessionIDs []int64, attendedDate time.Time) (int64, error)
	CompleteOne(ctx context.Context, sessionID int64, attendedDate time.Time) (int64, error)
}

type SweepService struct {
	sessionRepo overdueSessionStore
	cache       cache.CacheService
	now         func() time.Time
}

func NewSweepService(sessionRepo overdueSessionStore, cacheSvc cache.CacheService) *SweepService {
	return &SweepService{
		sessionRepo: sessionRepo,
		cache:       cacheSvc,
		now:         time.Now,
	}
}

type SweepInput struct {
	DryRun     bool
	MaxAgeDays int
}

type SweepResult struct {
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// Run advances stale scheduled/pending sessions to completed. The selection
// fetch failing is fatal; everything after degrades to per-row errors in
// the result. Re-running over an unchanged dataset selects nothing, so the
// sweep is idempotent and safe under concurrent self-invocation.
func (s *SweepService) Run(ctx context.Context, input SweepInput) (*SweepResult, error) {
	maxAgeDays := input.MaxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultSweepMaxAgeDays
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -maxAgeDays)

	candidates, err := s.sessionRepo.ListOverdue(ctx, today, cutoff)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Errors: []string{}}
	if len(candidates) == 0 {
		return result, nil
	}

	if input.DryRun {
		result.Skipped = len(candidates)
		return result, nil
	}

	ids := make([]int64, 0, len(candidates))
	for _, session := range candidates {
		ids = append(ids, session.ID)
	}

	updated, err := s.sessionRepo.CompleteEligible(ctx, ids, today)
	if err != nil {
		// Bulk write failed; fall back to independent per-row updates so a
		// single bad row cannot sink the whole sweep.
		updated = 0
		for _, session := range candidates {
			attended := today
			if attended.IsZero() {
				attended = session.ScheduledDate
			}
			n, rowErr := s.sessionRepo.CompleteOne(ctx, session.ID, attended)
			if rowErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("session %d: %v", session.ID, rowErr))
				continue
			}
			updated += n
		}
	}

	result.Updated = int(updated)
	result.Skipped = len(candidates) - result.Updated

	if result.Updated > 0 {
		invalidate(ctx, s.cache, cache.PrefixSessions)
	}

	return result, nil
}
