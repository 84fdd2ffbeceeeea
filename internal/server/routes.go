package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/hrdesk/hrdesk/internal/api/v1"
	"github.com/hrdesk/hrdesk/internal/auth"
	"github.com/hrdesk/hrdesk/internal/employee"
	"github.com/hrdesk/hrdesk/internal/store/images"
	"github.com/hrdesk/hrdesk/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, empSvc *employee.Service, imageStore *images.DiskStore) {
	v1.RegisterEmployeeRoutes(api, store, empSvc, imageStore)
	v1.RegisterLogRoutes(api, store)
}
