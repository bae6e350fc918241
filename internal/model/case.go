package model

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the lifecycle stage of a dispatch case.
type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "Open"
	CaseStatusNotified CaseStatus = "Notified"
	CaseStatusEnRoute  CaseStatus = "EnRoute"
	CaseStatusClosed   CaseStatus = "Closed"
)

// Valid reports whether s is one of the known lifecycle stages.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusNotified, CaseStatusEnRoute, CaseStatusClosed:
		return true
	}
	return false
}

// NotificationMethod is the channel used to alert a hospital triage desk.
type NotificationMethod string

const (
	NotifyViaCall     NotificationMethod = "Call"
	NotifyViaSMS      NotificationMethod = "SMS"
	NotifyViaWhatsApp NotificationMethod = "WhatsApp"
	NotifyViaEmail    NotificationMethod = "Email"
)

func (m NotificationMethod) Valid() bool {
	switch m {
	case NotifyViaCall, NotifyViaSMS, NotifyViaWhatsApp, NotifyViaEmail:
		return true
	}
	return false
}

// Case is a single emergency incident being dispatched and tracked.
// CreatedBy and CreatedAt are set once at creation and never mutated.
// NotifiedAt and NotifiedVia are set together or both absent.
type Case struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	MemberID        *uuid.UUID          `json:"member_id,omitempty" db:"member_id"`
	PatientName     string              `json:"patient_name" db:"patient_name"`
	Age             *int                `json:"age,omitempty" db:"age"`
	Sex             *string             `json:"sex,omitempty" db:"sex"`
	EmergencyType   string              `json:"emergency_type" db:"emergency_type"`
	LocationText    *string             `json:"location_text,omitempty" db:"location_text"`
	Latitude        *float64            `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64            `json:"longitude,omitempty" db:"longitude"`
	TransportMethod *string             `json:"transport_method,omitempty" db:"transport_method"`
	EstimatedETA    *int                `json:"estimated_eta,omitempty" db:"estimated_eta"`
	Status          CaseStatus          `json:"status" db:"status"`
	HospitalID      *uuid.UUID          `json:"hospital_id,omitempty" db:"hospital_id"`
	NotifiedAt      *time.Time          `json:"notified_at,omitempty" db:"notified_at"`
	NotifiedVia     *NotificationMethod `json:"notified_via,omitempty" db:"notified_via"`
	Notes           *string             `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	CreatedBy       string              `json:"created_by" db:"created_by"`
}

// CaseDetail is a case with its directory references and audit history
// resolved for detail views.
type CaseDetail struct {
	Case
	Hospital *Hospital   `json:"hospital,omitempty"`
	Member   *Member     `json:"member,omitempty"`
	History  []*AuditLog `json:"history"`
}

// CaseFilter narrows case listings. A nil Status means "all non-closed".
type CaseFilter struct {
	Status *CaseStatus
}
