package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a registered patient profile with stored medical history.
// ConsentFlag gates any exposure of that history outside the dispatch desk.
type Member struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	FullName            string     `json:"full_name" db:"full_name"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Phone               string     `json:"phone" db:"phone"`
	EmergencyContact    *string    `json:"emergency_contact,omitempty" db:"emergency_contact"`
	Allergies           *string    `json:"allergies,omitempty" db:"allergies"`
	Medications         *string    `json:"medications,omitempty" db:"medications"`
	MedicalConditions   *string    `json:"medical_conditions,omitempty" db:"medical_conditions"`
	PreferredHospitalID *uuid.UUID `json:"preferred_hospital_id,omitempty" db:"preferred_hospital_id"`
	ConsentFlag         bool       `json:"consent_flag" db:"consent_flag"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}
