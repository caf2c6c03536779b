package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// State transitions possibilities:
//
//	Scheduled → In Progress → Completed
//	Scheduled → Completed (doctor completes without opening the consult)
//	Scheduled → Not Completed → Cancelled
//	Scheduled → Cancelled
//
// Completed and Cancelled are terminal.
type Status string

const (
	StatusScheduled    Status = "Scheduled"
	StatusInProgress   Status = "In Progress"
	StatusNotCompleted Status = "Not Completed"
	StatusCompleted    Status = "Completed"
	StatusCancelled    Status = "Cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusNotCompleted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
)

func (p PaymentStatus) IsValid() bool {
	return p == PaymentPending || p == PaymentCompleted
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index:idx_appointments_doctor_day" json:"doctor_user_id"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_user_id"`

	Date  string `gorm:"column:date;type:varchar(10);not null;index:idx_appointments_doctor_day" json:"date"`
	Time  string `gorm:"column:time;type:varchar(5);not null" json:"time"`
	Notes string `gorm:"column:notes;type:text" json:"notes"`

	Status        Status        `gorm:"column:status;type:varchar(20);not null;default:'Scheduled';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(10);not null;default:'Pending'" json:"payment_status"`

	// TokenSeq is the patient's queue position for the doctor's day,
	// assigned once at booking and never reassigned.
	TokenSeq int     `gorm:"column:token_seq;not null" json:"token_seq"`
	Cost     float64 `gorm:"column:cost;not null" json:"cost"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// StartsAt combines the date and time columns into a point in UTC.
func (a *Appointment) StartsAt() (time.Time, error) {
	return time.Parse(DateLayout+"T"+TimeLayout, a.Date+"T"+a.Time)
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled:    {StatusInProgress, StatusNotCompleted, StatusCompleted, StatusCancelled},
		StatusInProgress:   {StatusCompleted},
		StatusNotCompleted: {StatusCancelled},
		StatusCompleted:    {},
		StatusCancelled:    {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Transition applies a status change after checking the transition map.
func (a *Appointment) Transition(newStatus Status) error {
	if !newStatus.IsValid() {
		return ErrInvalidStatus
	}
	if !a.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	a.Status = newStatus
	return nil
}

// MarkPaid moves payment from Pending to Completed. The reverse direction
// does not exist.
func (a *Appointment) MarkPaid() error {
	if a.PaymentStatus == PaymentCompleted {
		return ErrPaymentAlreadyCompleted
	}
	a.PaymentStatus = PaymentCompleted
	return nil
}

// Cancellable reports whether the patient may still cancel.
func (a *Appointment) Cancellable() bool {
	return a.Status == StatusScheduled || a.Status == StatusNotCompleted
}

// Completable reports whether the doctor may mark the consult done.
func (a *Appointment) Completable() bool {
	return a.Status == StatusScheduled || a.Status == StatusInProgress
}

type BookAppointmentCommand struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      string
	Time      string
	Notes     string
}

type UpdateAppointmentCommand struct {
	Status        *Status
	PaymentStatus *PaymentStatus
}

type ListAppointmentsQuery struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    *Status
	DateFrom  *string
	DateTo    *string
}
