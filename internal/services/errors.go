package services

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrServiceNotFound        = errors.New("service not found")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)
