package flow

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

// Resolver answers "which times can still be booked for this doctor on this
// date". It is read-only: resolving never reserves anything, and an empty
// answer simply means no openings.
type Resolver struct {
	backend Backend
}

func NewResolver(backend Backend) *Resolver {
	return &Resolver{backend: backend}
}

func (r *Resolver) Resolve(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if _, err := time.Parse(appointment.DateLayout, date); err != nil {
		return nil, &client.ValidationError{Fields: []string{appointment.ErrInvalidDate.Error()}}
	}
	if doctorID == uuid.Nil {
		return nil, &client.ValidationError{Fields: []string{"doctor is required"}}
	}

	times, err := r.backend.Availability(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	// The backend already excludes booked times; sorting and deduplication
	// keep the slot picker stable regardless of response order.
	sort.Strings(times)
	out := times[:0]
	var prev string
	for i, t := range times {
		if i > 0 && t == prev {
			continue
		}
		out = append(out, t)
		prev = t
	}
	return out, nil
}
