package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/middleware"
	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Submissions   *SubmissionHandler
	Subjects      *SubjectHandler
	Programs      *ProgramHandler
	Registrations *RegistrationHandler
	Institutions  *InstitutionHandler
	Faculty       *FacultyHandler
	Exports       *ExportHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the API surface under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	// Public surface: sign-up and the institution directory.
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/registrations", h.Registrations.Create)
	api.GET("/institutions", h.Institutions.List)
	api.GET("/institutions/directory", h.Institutions.Directory)
	api.GET("/institutions/:id", h.Institutions.Get)
	api.GET("/institutions/:id/campuses", h.Institutions.Campuses)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.GET("/auth/me", h.Auth.Me)
	authed.GET("/programs/master", h.Programs.ListCatalog)
	authed.GET("/subjects/:id", h.Subjects.Get)

	// HEI surface: everything scoped to the caller's institution.
	hei := authed.Group("")
	hei.Use(middleware.RequireInstitution())
	{
		hei.POST("/submissions", h.Submissions.Submit)
		hei.GET("/submissions", h.Submissions.List)
		hei.GET("/submissions/:id/pdf", h.Submissions.ExportPDF)
		hei.GET("/submissions/:id/download", h.Submissions.Download)
		hei.DELETE("/submissions/:id", h.Submissions.Delete)

		hei.POST("/subjects", h.Subjects.Create)
		hei.PATCH("/subjects/:id", h.Subjects.Update)
		hei.DELETE("/subjects/:id", h.Subjects.Delete)

		hei.POST("/programs/requests", h.Programs.CreateRequest)
		hei.PUT("/programs/requests/:id", h.Programs.ReplaceCurriculum)
		hei.DELETE("/programs/requests/:id", h.Programs.DeleteRequest)

		hei.GET("/faculty", h.Faculty.List)
		hei.POST("/faculty", h.Faculty.Create)
		hei.PUT("/faculty/:id", h.Faculty.Update)
		hei.DELETE("/faculty/:id", h.Faculty.Delete)

		if h.Exports != nil {
			hei.GET("/exports/submissions", h.Exports.Submissions)
			hei.GET("/exports/subjects", h.Exports.Subjects)
		}
	}

	// Listings are role aware: the handler scopes by institution or
	// reviewer region from the token.
	authed.GET("/subjects", h.Subjects.List)
	authed.GET("/programs/requests", h.Programs.ListRequests)

	// Reviewer surface.
	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/subjects/:id/status", h.Subjects.UpdateStatus)
		admin.POST("/programs/requests/:id/status", h.Programs.UpdateRequestStatus)

		admin.GET("/registrations", h.Registrations.List)
		admin.POST("/registrations/:id/approve", h.Registrations.Approve)
		admin.POST("/registrations/:id/decline", h.Registrations.Decline)
		admin.DELETE("/registrations/:id", h.Registrations.Delete)

		catalog := admin.Group("", middleware.RequireUnrestricted())
		catalog.POST("/programs/master", h.Programs.CreateCatalog)
		catalog.PUT("/programs/master/:id", h.Programs.UpdateCatalog)
		catalog.DELETE("/programs/master/:id", h.Programs.DeleteCatalog)
	}
}
