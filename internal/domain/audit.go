package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the change log.
const (
	ActionEditEmployee = "Edit Employee"

	TargetTableEmployee = "employee"
)

// AuditEntry is an append-only record of an edit: who changed which record,
// when, and a JSON description of the changed fields. Entries are never
// mutated or deleted once written.
type AuditEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Action      string
	TargetTable string
	TargetID    string
	Description json.RawMessage
	CreatedAt   time.Time
}

// EmployeeEditLog is the reporting view of an AuditEntry, joined with the
// editor's username and the edited employee's current name.
type EmployeeEditLog struct {
	AuditEntry
	EditorUsername string
	EmployeeName   string
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListEmployeeEdits(ctx context.Context, limit int) ([]*EmployeeEditLog, error)
}
