package doctor

import (
	"strings"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
)

// Doctor is the directory view of a doctor account, optionally carrying the
// doctor's open availability slots for the booking screen.
type Doctor struct {
	UserID         uuid.UUID            `json:"user_id"`
	Name           string               `json:"name"`
	Specialization string               `json:"specialization"`
	HospitalID     *uuid.UUID           `json:"hospital_user_id,omitempty"`
	IsActive       bool                 `json:"is_active"`
	Availability   []*availability.Slot `json:"availability,omitempty"`
}

// DefaultFee is charged when the specialization matches no override.
const DefaultFee = 500

var feeOverrides = []struct {
	keyword string
	fee     float64
}{
	{"cardiologist", 1500},
	{"dermatologist", 800},
	{"general practitioner", 500},
}

// ConsultationFee resolves the consultation fee for a specialization.
// Matching is a case-insensitive substring check, mirroring how the
// billing screen has always priced consults.
func ConsultationFee(specialization string) float64 {
	s := strings.ToLower(specialization)
	for _, o := range feeOverrides {
		if strings.Contains(s, o.keyword) {
			return o.fee
		}
	}
	return DefaultFee
}
