package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is one immutable record of an action taken against a case.
// Entries are only ever appended; the ledger never updates or deletes them.
type AuditLog struct {
	ID          int64      `json:"id" db:"id"`
	CaseID      *uuid.UUID `json:"case_id,omitempty" db:"case_id"`
	Action      string     `json:"action" db:"action"`
	PerformedBy string     `json:"performed_by" db:"performed_by"`
	Details     *string    `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

const (
	AuditActionCreated       = "created"
	AuditActionUpdated       = "updated"
	AuditActionStatusChanged = "status_changed"
	AuditActionNotified      = "notified"
)
