package entity

import "github.com/google/uuid"

// Languages a doctor may declare
var SupportedLanguages = []string{"Italiano", "Inglese", "Francese", "Spagnolo", "Tedesco"}

// DoctorProfile holds the public-facing data of a specialist
type DoctorProfile struct {
	UserID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization    string     `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Description       string     `gorm:"type:text" json:"description,omitempty"`
	YearsOfExperience int        `gorm:"not null;default:0" json:"years_of_experience"`
	Languages         StringList `gorm:"type:jsonb;not null" json:"languages"`
	IsAvailable       *bool      `gorm:"not null;default:true;index" json:"is_available"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Available treats a missing flag as available
func (p *DoctorProfile) Available() bool {
	return p.IsAvailable == nil || *p.IsAvailable
}

// IsSupportedLanguage checks a language against SupportedLanguages
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
