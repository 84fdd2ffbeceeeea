package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrdesk/hrdesk/internal/domain"
	"github.com/hrdesk/hrdesk/internal/employee"
	"github.com/hrdesk/hrdesk/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject user/role into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, "hr")
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	employees domain.EmployeeRepository
	users     domain.UserRepository
	audit     domain.AuditRepository
}

func (m *mockDataStore) Employees() domain.EmployeeRepository { return m.employees }
func (m *mockDataStore) Users() domain.UserRepository         { return m.users }
func (m *mockDataStore) Audit() domain.AuditRepository        { return m.audit }

// ---------------------------------------------------------------------------
// Mock EmployeeRepository
// ---------------------------------------------------------------------------

type mockEmployeeRepo struct {
	createFunc       func(ctx context.Context, e *domain.Employee) error
	getByIDFunc      func(ctx context.Context, employeeID string) (*domain.Employee, error)
	updateFunc       func(ctx context.Context, e *domain.Employee) error
	listFunc         func(ctx context.Context) ([]*domain.Employee, error)
	searchByNameFunc func(ctx context.Context, name string) ([]*domain.Employee, error)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	return m.createFunc(ctx, e)
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return m.getByIDFunc(ctx, employeeID)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	return m.updateFunc(ctx, e)
}

func (m *mockEmployeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	return m.listFunc(ctx)
}

func (m *mockEmployeeRepo) SearchByName(ctx context.Context, name string) ([]*domain.Employee, error) {
	return m.searchByNameFunc(ctx, name)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc        func(ctx context.Context, u *domain.User) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	recordFunc            func(ctx context.Context, entry *domain.AuditEntry) error
	listEmployeeEditsFunc func(ctx context.Context, limit int) ([]*domain.EmployeeEditLog, error)
}

func (m *mockAuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	return m.recordFunc(ctx, entry)
}

func (m *mockAuditRepo) ListEmployeeEdits(ctx context.Context, limit int) ([]*domain.EmployeeEditLog, error) {
	return m.listEmployeeEditsFunc(ctx, limit)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, username, password, fullName, role string) (*domain.User, error)
	loginFunc        func(ctx context.Context, username, password string) (*domain.User, string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
	logoutFunc       func(ctx context.Context, refreshToken string) error
}

func (m *mockAuthService) Register(ctx context.Context, username, password, fullName, role string) (*domain.User, error) {
	return m.registerFunc(ctx, username, password, fullName, role)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (user *domain.User, accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.logoutFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock EmployeeService
// ---------------------------------------------------------------------------

type mockEmployeeService struct {
	createFunc func(ctx context.Context, in employee.RecordInput) (*domain.Employee, error)
	updateFunc func(ctx context.Context, actorID uuid.UUID, employeeID string, in employee.RecordInput) (employee.UpdateResult, error)
}

func (m *mockEmployeeService) Create(ctx context.Context, in employee.RecordInput) (*domain.Employee, error) {
	return m.createFunc(ctx, in)
}

func (m *mockEmployeeService) Update(ctx context.Context, actorID uuid.UUID, employeeID string, in employee.RecordInput) (employee.UpdateResult, error) {
	return m.updateFunc(ctx, actorID, employeeID, in)
}

// ---------------------------------------------------------------------------
// Static image resolver
// ---------------------------------------------------------------------------

type staticImageResolver struct{}

func (staticImageResolver) URL(name string) string {
	if name == "" {
		return ""
	}
	return "/uploads/" + name
}

// ---------------------------------------------------------------------------
// Deterministic UUIDs for stable tests
// ---------------------------------------------------------------------------

func fixedUserID() uuid.UUID {
	return uuid.MustParse("00000000-0000-0000-0000-000000000001")
}

func fixedLogID() uuid.UUID {
	return uuid.MustParse("00000000-0000-0000-0000-00000000000a")
}
