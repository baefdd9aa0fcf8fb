package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultLocale = "it-IT"

// User is the account row shared by patients, doctors and admins.
// Doctors created by an admin have no password and cannot log in.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"type:text;not null;default:''" json:"-"`
	FirstName     string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName      string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Role          Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	Locale        string    `gorm:"type:varchar(10);not null;default:'it-IT'" json:"locale"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Active treats a missing flag as active
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// CanLogin is false for accounts without a password hash
func (u *User) CanLogin() bool {
	return u.Password != ""
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// PreferredLocale returns the stored locale or the clinic default
func (u *User) PreferredLocale() string {
	if u.Locale == "" {
		return DefaultLocale
	}
	return u.Locale
}
