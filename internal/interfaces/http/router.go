package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/nexus-bills/internal/application/analytics"
	"github.com/jhoicas/nexus-bills/internal/application/auth"
	"github.com/jhoicas/nexus-bills/internal/application/billing"
	"github.com/jhoicas/nexus-bills/internal/application/notification"
	"github.com/jhoicas/nexus-bills/internal/application/usecase"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// RouterDeps dependencies of the API routes.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	BillUC      *billing.BillUseCase
	Converter   *billing.Converter
	BillPDF     *billing.PDFUseCase
	Feed        *notification.Feed
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	api := app.Group("/api")

	// public
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	// onboarding and profile
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	profileHandler := NewProfileHandler(deps.UserUC, log)
	protected.Post("/onboarding/company", companyHandler.CompleteOnboarding)
	protected.Get("/onboarding/company", companyHandler.Get)
	protected.Get("/onboarding/status", companyHandler.Status)
	protected.Get("/get-profile-data", profileHandler.GetProfileData)
	protected.Post("/update-company-details", companyHandler.UpdateDetails)
	protected.Post("/update-user-profile", profileHandler.UpdateUserProfile)
	protected.Post("/change-password", profileHandler.ChangePassword)

	// notifications
	nh := NewNotificationHandler(deps.Feed, log)
	notes := protected.Group("/notifications")
	notes.Get("/", nh.Recent)
	notes.Get("/all", nh.All)
	notes.Get("/list", nh.Page)
	notes.Get("/check-new", nh.CheckNew)
	notes.Post("/read-all", nh.MarkAllRead)
	notes.Add(fiber.MethodDelete, "/clear-all", nh.ClearAll)
	notes.Add(fiber.MethodPost, "/clear-all", nh.ClearAll)
	notes.Post("/:id/read", nh.MarkRead)
	notes.Post("/:id/unread", nh.MarkUnread)
	notes.Add(fiber.MethodDelete, "/:id/delete", nh.Delete)
	notes.Add(fiber.MethodPost, "/:id/delete", nh.Delete)

	// billing, onboarding complete
	billHandler := NewBillHandler(deps.BillUC, deps.Converter, deps.BillPDF, log)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	onboarded := RequireOnboarding(deps.CompanyUC, log)

	protected.Post("/save", onboarded, billHandler.Save)
	for _, r := range []struct {
		stage             entity.Stage
		list, get, remove string
	}{
		{entity.StageDraft, "/get-drafts", "/get-draft/:id", "/delete-draft/:id"},
		{entity.StageKacha, "/get-kacha-bills", "/get-kacha-bill/:id", "/delete-kacha-bill/:id"},
		{entity.StagePakka, "/get-pakka-bills", "/get-pakka-bill/:id", "/delete-pakka-bill/:id"},
	} {
		protected.Get(r.list, onboarded, billHandler.List(r.stage))
		protected.Get(r.get, onboarded, billHandler.Get(r.stage))
		protected.Add(fiber.MethodDelete, r.remove, onboarded, billHandler.Delete(r.stage))
		protected.Add(fiber.MethodPost, r.remove, onboarded, billHandler.Delete(r.stage))
	}

	protected.Post("/convert/draft-to-kacha/:id", onboarded, billHandler.Convert(entity.StageDraft, entity.StageKacha))
	protected.Post("/convert/draft-to-pakka/:id", onboarded, billHandler.Convert(entity.StageDraft, entity.StagePakka))
	protected.Post("/convert/kacha-to-pakka/:id", onboarded, billHandler.Convert(entity.StageKacha, entity.StagePakka))

	protected.Get("/check-overdue-bills", onboarded, billHandler.Overdue)
	protected.Get("/dashboard-data", onboarded, dashboardHandler.GetDashboard)
	protected.Get("/bills/:stage/:id/pdf", onboarded, billHandler.DownloadPDF)
}
