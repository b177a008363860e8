package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a customer's top-level booking for a service. Orders are never
// hard-deleted; catalog deletions null the service reference instead.
type Order struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	ServiceID    *int64    `json:"service_id"`
	DoctorID     *int64    `json:"doctor_id"`
	BookingDate  time.Time `json:"booking_date"`
	BookingTime  string    `json:"booking_time"`
	SessionCount int       `json:"session_count"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderDetail bundles an order with its sessions.
type OrderDetail struct {
	Order
	Sessions []OrderSession `json:"sessions,omitempty"`
}

func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}
