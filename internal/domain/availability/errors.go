package availability

import "errors"

var (
	ErrSlotNotFound = errors.New("availability slot not found")
	ErrSlotExists   = errors.New("availability slot already exists for this date and time")
	ErrSlotTaken    = errors.New("time slot is no longer available")
)
