package availability

import (
	"time"

	"github.com/google/uuid"
)

// Slot is an unbooked (doctor, date, time) tuple. Slots exist only while
// open: booking consumes the row, cancellation restores it, so a slot and
// a booked appointment for the same tuple are mutually exclusive.
type Slot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex:idx_slots_doctor_date_time" json:"doctor_user_id"`
	Date     string    `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_slots_doctor_date_time" json:"date"`
	Time     string    `gorm:"column:time;type:varchar(5);not null;uniqueIndex:idx_slots_doctor_date_time" json:"time"`
}

func (Slot) TableName() string {
	return "clinical.availability_slots"
}

type AddSlotCommand struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
}
