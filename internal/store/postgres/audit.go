package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrdesk/hrdesk/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Record appends one change-log row. Rows are never updated or deleted here;
// the table is append-only by contract.
func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO employee_change_log (id, user_id, action, target_table, target_id, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.Action, entry.TargetTable, entry.TargetID,
		[]byte(entry.Description), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: %w", err)
	}

	return nil
}

func (r *AuditRepo) ListEmployeeEdits(ctx context.Context, limit int) ([]*domain.EmployeeEditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT log.id, log.user_id, u.username, log.action, log.target_table,
		        log.target_id, e.full_name, log.description, log.created_at
		 FROM employee_change_log log
		 LEFT JOIN users u ON log.user_id = u.id
		 LEFT JOIN employees e ON log.target_id = e.employee_id
		 ORDER BY log.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListEmployeeEdits: %w", err)
	}
	defer rows.Close()

	return scanEmployeeEditLogs(rows, "auditRepo.ListEmployeeEdits")
}

func scanEmployeeEditLogs(rows pgx.Rows, caller string) ([]*domain.EmployeeEditLog, error) {
	var logs []*domain.EmployeeEditLog
	for rows.Next() {
		var l domain.EmployeeEditLog
		var editor, employeeName *string
		var description []byte

		if err := rows.Scan(
			&l.ID, &l.UserID, &editor, &l.Action, &l.TargetTable,
			&l.TargetID, &employeeName, &description, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}

		l.EditorUsername = derefStr(editor)
		l.EmployeeName = derefStr(employeeName)
		l.Description = description
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return logs, nil
}
