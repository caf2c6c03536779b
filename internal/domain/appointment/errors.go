package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatus           = errors.New("unknown appointment status")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrPaymentAlreadyCompleted = errors.New("payment has already been completed")
	ErrInvalidDate             = errors.New("date must be a valid calendar date (YYYY-MM-DD)")
	ErrInvalidTime             = errors.New("time must be in HH:MM format")
)
