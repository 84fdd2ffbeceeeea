package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hrdesk/hrdesk/internal/changelog"
)

type ListEditLogsInput struct {
	Limit int `query:"limit" default:"100" minimum:"1" maximum:"1000" doc:"Maximum number of log entries to return"`
}

// EditLogResponse is one row of the employee edit history, newest first.
// Changes holds the parsed per-field before/after pairs; it is null when the
// stored description is not a valid change set.
type EditLogResponse struct {
	ID             string              `json:"id"`
	EditorUsername string              `json:"editor_username,omitempty"`
	Action         string              `json:"action"`
	EmployeeID     string              `json:"employee_id"`
	EmployeeName   string              `json:"employee_name,omitempty"`
	Changes        changelog.ChangeSet `json:"changes"`
	CreatedAt      time.Time           `json:"created_at"`
}

type ListEditLogsOutput struct {
	Body []EditLogResponse
}

func RegisterLogRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-employee-edit-logs",
		Method:      http.MethodGet,
		Path:        "/logs/employee-edit",
		Summary:     "List employee edit history",
		Tags:        []string{"Logs"},
	}, func(ctx context.Context, input *ListEditLogsInput) (*ListEditLogsOutput, error) {
		logs, err := store.Audit().ListEmployeeEdits(ctx, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list edit logs", err)
		}

		out := &ListEditLogsOutput{Body: make([]EditLogResponse, 0, len(logs))}
		for _, l := range logs {
			var changes changelog.ChangeSet
			if err := json.Unmarshal(l.Description, &changes); err != nil {
				changes = nil
			}
			out.Body = append(out.Body, EditLogResponse{
				ID:             l.ID.String(),
				EditorUsername: l.EditorUsername,
				Action:         l.Action,
				EmployeeID:     l.TargetID,
				EmployeeName:   l.EmployeeName,
				Changes:        changes,
				CreatedAt:      l.CreatedAt,
			})
		}
		return out, nil
	})
}
