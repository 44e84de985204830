package router

import (
	catalog "github.com/skillforge/skillforge-backend/internal/application"
	"github.com/skillforge/skillforge-backend/internal/container"
	repocatalog "github.com/skillforge/skillforge-backend/internal/domain/repository"
	pginfra "github.com/skillforge/skillforge-backend/internal/infrastructure/postgres"
	handlers "github.com/skillforge/skillforge-backend/internal/interface/http"
	catalogmodule "github.com/skillforge/skillforge-backend/internal/router/modules"
)

type CatalogModuleDeps struct {
	Courses     repocatalog.CourseRepository
	Enrollments repocatalog.EnrollmentRepository
	Service     *catalog.CatalogService
	Handler     *handlers.CatalogHandler
}

func buildCatalogDeps() CatalogModuleDeps {
	courses := pginfra.NewCourseRepository(container.GetPGPool())
	enrollments := pginfra.NewEnrollmentRepository(container.GetPGPool())

	service := catalog.NewCatalogService(
		courses,
		enrollments,
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetGCS(),
		container.GetConfig().GCSBucket,
		container.GetLogger(),
		container.GetConfig().CourseCacheTTL,
	)

	handler := handlers.NewCatalogHandler(service, container.GetLogger())

	return CatalogModuleDeps{
		Courses:     courses,
		Enrollments: enrollments,
		Service:     service,
		Handler:     handler,
	}
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	deps := buildCatalogDeps()
	r.Add(catalogmodule.New(deps.Handler, container.GetJWT()))
}
