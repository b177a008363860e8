package models

import "time"

const (
	SessionStatusScheduled = "scheduled"
	SessionStatusPending   = "pending"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
	SessionStatusExpired   = "expired"
	SessionStatusMissed    = "missed"
)

// OrderSession is one occurrence within a multi-session order. Session
// numbers are unique and contiguous from 1 within their order.
type OrderSession struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	SessionNumber int        `json:"session_number"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	ScheduledTime string     `json:"scheduled_time"`
	Status        string     `json:"status"`
	AttendedDate  *time.Time `json:"attended_date"`
	Notes         *string    `json:"notes"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsTerminalSessionStatus reports whether a session status admits no
// further transitions (short of an administrative override).
func IsTerminalSessionStatus(status string) bool {
	switch status {
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusExpired, SessionStatusMissed:
		return true
	default:
		return false
	}
}
