package models

// User is the identity backend's projection of the signed-in user. The
// backend itself is an external collaborator; only this shape is consumed.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	FullName *string `json:"full_name"`
}
