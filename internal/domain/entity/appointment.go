package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Layouts of the date and time columns
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// IsValid reports whether s is a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked (date, time) slot with a doctor.
// Date and Time are kept as the labels the patient picked.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DoctorName     string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	Specialization string            `gorm:"type:varchar(100);not null" json:"specialization"`
	Date           string            `gorm:"type:varchar(10);not null;index" json:"date"`
	Time           string            `gorm:"type:varchar(5);not null" json:"time"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Location       string            `gorm:"type:varchar(100);not null" json:"location"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// StartsAt resolves the appointment's date and time in loc
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// CanTransitionTo allows scheduled -> completed|cancelled only.
// Completed and cancelled appointments are final.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if !a.IsScheduled() {
		return false
	}
	return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
}

// ParseDate parses a YYYY-MM-DD label in loc
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, loc)
}

// IsValidSlotLabel reports whether label is a zero-padded HH:MM time
func IsValidSlotLabel(label string) bool {
	if len(label) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, label)
	return err == nil
}
