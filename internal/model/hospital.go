package model

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is a destination facility with its triage desk contacts.
type Hospital struct {
	ID                uuid.UUID          `json:"id" db:"id"`
	Name              string             `json:"name" db:"name"`
	TriageContactName *string            `json:"triage_contact_name,omitempty" db:"triage_contact_name"`
	TriagePhone       *string            `json:"triage_phone,omitempty" db:"triage_phone"`
	TriageWhatsApp    *string            `json:"triage_whatsapp,omitempty" db:"triage_whatsapp"`
	TriageEmail       *string            `json:"triage_email,omitempty" db:"triage_email"`
	PreferredMethod   NotificationMethod `json:"preferred_notification_method" db:"preferred_notification_method"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
}
