package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arman-d/DermaCareBack/internal/models"
)

type CreateSessionInput struct {
	SessionNumber int
	ScheduledDate time.Time
	ScheduledTime string
	Status        string
	Notes         *string
	ExpiresAt     *time.Time
}

// SessionPatch carries the whitelisted mutable fields of a session. Nil
// fields are left untouched.
type SessionPatch struct {
	ScheduledDate *time.Time
	ScheduledTime *string
	Status        *string
	AttendedDate  *time.Time
	Notes         *string
	ExpiresAt     *time.Time
}

func (p SessionPatch) IsEmpty() bool {
	return p.ScheduledDate == nil &&
		p.ScheduledTime == nil &&
		p.Status == nil &&
		p.AttendedDate == nil &&
		p.Notes == nil &&
		p.ExpiresAt == nil
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, order_id, session_number, scheduled_date, scheduled_time::text, status, attended_date, notes, expires_at, created_at, updated_at`

func scanSession(row interface{ Scan(dest ...any) error }) (*models.OrderSession, error) {
	var session models.OrderSession
	err := row.Scan(
		&session.ID,
		&session.OrderID,
		&session.SessionNumber,
		&session.ScheduledDate,
		&session.ScheduledTime,
		&session.Status,
		&session.AttendedDate,
		&session.Notes,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.OrderSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM order_sessions
		WHERE order_id = $1
		ORDER BY session_number ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.OrderSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, orderID, sessionID int64) (*models.OrderSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM order_sessions
		WHERE id = $1 AND order_id = $2
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID, orderID))
}

// BulkCreate inserts one row per draft, all owned by orderID.
func (r *SessionRepository) BulkCreate(
	ctx context.Context,
	orderID int64,
	drafts []CreateSessionInput,
) ([]models.OrderSession, error) {
	query := `
		INSERT INTO order_sessions (order_id, session_number, scheduled_date, scheduled_time, status, notes, expires_at)
		VALUES ($1, $2, $3, $4::time, $5, $6, $7)
		RETURNING ` + sessionColumns

	created := make([]models.OrderSession, 0, len(drafts))
	for _, draft := range drafts {
		session, err := scanSession(r.db.QueryRow(
			ctx,
			query,
			orderID,
			draft.SessionNumber,
			draft.ScheduledDate,
			draft.ScheduledTime,
			draft.Status,
			draft.Notes,
			draft.ExpiresAt,
		))
		if err != nil {
			return nil, err
		}
		created = append(created, *session)
	}
	return created, nil
}

// UpdateFields applies the non-nil patch fields to one session. The update
// is scoped by both session id and owning order id so a patch can never
// reach across orders.
func (r *SessionRepository) UpdateFields(
	ctx context.Context,
	orderID int64,
	sessionID int64,
	patch SessionPatch,
) (*models.OrderSession, error) {
	setParts := make([]string, 0, 7)
	args := []any{sessionID, orderID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ScheduledDate != nil {
		appendSet("scheduled_date", *patch.ScheduledDate)
	}
	if patch.ScheduledTime != nil {
		args = append(args, *patch.ScheduledTime)
		setParts = append(setParts, fmt.Sprintf("scheduled_time = $%d::time", len(args)))
	}
	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.AttendedDate != nil {
		appendSet("attended_date", *patch.AttendedDate)
	}
	if patch.Notes != nil {
		appendSet("notes", *patch.Notes)
	}
	if patch.ExpiresAt != nil {
		appendSet("expires_at", *patch.ExpiresAt)
	}
	setParts = append(setParts, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE order_sessions
		SET %s
		WHERE id = $1 AND order_id = $2
		RETURNING %s
	`, strings.Join(setParts, ", "), sessionColumns)

	return scanSession(r.db.QueryRow(ctx, query, args...))
}

// ListOverdue selects sessions still awaiting attendance whose scheduled
// date falls inside [cutoff, today).
func (r *SessionRepository) ListOverdue(
	ctx context.Context,
	today time.Time,
	cutoff time.Time,
) ([]models.OrderSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM order_sessions
		WHERE status IN ('scheduled', 'pending')
		  AND scheduled_date < $1
		  AND scheduled_date >= $2
		ORDER BY scheduled_date ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, today, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.OrderSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CompleteEligible marks the given sessions completed. The status predicate
// is re-checked at write time so a concurrently rescheduled or terminal
// session is left alone. Returns the number of rows written.
func (r *SessionRepository) CompleteEligible(
	ctx context.Context,
	sessionIDs []int64,
	attendedDate time.Time,
) (int64, error) {
	query := `
		UPDATE order_sessions
		SET status = 'completed', attended_date = $2, updated_at = NOW()
		WHERE id = ANY($1)
		  AND status IN ('scheduled', 'pending')
	`
	tag, err := r.db.Exec(ctx, query, sessionIDs, attendedDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CompleteOne is the per-row fallback of CompleteEligible.
func (r *SessionRepository) CompleteOne(
	ctx context.Context,
	sessionID int64,
	attendedDate time.Time,
) (int64, error) {
	query := `
		UPDATE order_sessions
		SET status = 'completed', attended_date = $2, updated_at = NOW()
		WHERE id = $1
		  AND status IN ('scheduled', 'pending')
	`
	tag, err := r.db.Exec(ctx, query, sessionID, attendedDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
