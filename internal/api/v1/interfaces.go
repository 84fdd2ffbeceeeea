package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrdesk/hrdesk/internal/domain"
	"github.com/hrdesk/hrdesk/internal/employee"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Employees() domain.EmployeeRepository
	Users() domain.UserRepository
	Audit() domain.AuditRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, username, password, fullName, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (user *domain.User, accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

// EmployeeService abstracts the audited write pipeline for handler testing.
// *employee.Service satisfies this interface.
type EmployeeService interface {
	Create(ctx context.Context, in employee.RecordInput) (*domain.Employee, error)
	Update(ctx context.Context, actorID uuid.UUID, employeeID string, in employee.RecordInput) (employee.UpdateResult, error)
}

// ImageResolver maps stored image names to public URLs.
// *images.DiskStore satisfies this interface.
type ImageResolver interface {
	URL(name string) string
}
