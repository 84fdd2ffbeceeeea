package changelog

import "encoding/json"

// AuditedFields is the fixed set of employee attributes subject to change
// auditing, in review order. The diff never reflects over arbitrary keys;
// a field not listed here is invisible to the audit trail.
var AuditedFields = []string{
	"full_name",
	"gender",
	"age",
	"birth_date",
	"citizen_id",
	"phone_number",
	"start_date",
	"resign_date",
	"years_of_service",
	"bank_account",
	"current_salary",
	"department",
	"position",
	"google_drive",
	"profile_image",
}

// FieldDiff holds the canonical before/after values of a single changed field.
type FieldDiff struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// ChangeSet maps field names to their diffs. A field appears iff its canonical
// before and after values differ; unchanged fields are never present.
type ChangeSet map[string]FieldDiff

// Compute diffs two record snapshots over AuditedFields. A key missing from a
// snapshot normalizes through the same missing-means-default rule as any other
// empty value, so dropping a field from the incoming payload reads as an
// explicit clear, not a skip. Given the same snapshots the result is identical
// every time.
func Compute(oldSnap, newSnap map[string]any) ChangeSet {
	cs := ChangeSet{}
	for _, field := range AuditedFields {
		before := Normalize(field, oldSnap[field])
		after := Normalize(field, newSnap[field])
		if before != after {
			cs[field] = FieldDiff{Before: before, After: after}
		}
	}
	return cs
}

// Empty reports whether no audited field changed.
func (cs ChangeSet) Empty() bool { return len(cs) == 0 }

// JSON serializes the change set for persistence in an audit entry.
func (cs ChangeSet) JSON() ([]byte, error) {
	return json.Marshal(cs)
}
