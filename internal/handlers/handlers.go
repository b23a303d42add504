package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/config"
	"workdesk/api/internal/middleware"
	"workdesk/api/internal/models"
	"workdesk/api/internal/repository"
	"workdesk/api/internal/service"
	"workdesk/api/internal/storage"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	db       *pgxpool.Pool
	cache    *redis.Client
	sessions *repository.SessionRepository
	auth     *service.AuthService
	intake   *service.IntakeService
	tasks    *service.TaskService
	results  *service.ResultService
	metrics  *service.MetricsService
	uploads  *service.UploadService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cacheClient *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	resultRepo := repository.NewResultRepository(db)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		db:       db,
		cache:    cacheClient,
		sessions: sessionRepo,
		auth:     service.NewAuthService(userRepo, sessionRepo, cacheClient, cfg, log),
		intake:   service.NewIntakeService(requestRepo, log),
		tasks:    service.NewTaskService(taskRepo, userRepo, requestRepo, resultRepo, log),
		results:  service.NewResultService(resultRepo, taskRepo, log),
		metrics:  service.NewMetricsService(taskRepo, requestRepo, log),
		uploads:  service.NewUploadService(store, cfg.Upload, log),
	}
}

// AuthService exposes the auth service for startup tasks (admin bootstrap).
func (h HandlerSet) AuthService() *service.AuthService {
	return h.auth
}

func (h HandlerSet) Register(engine *gin.Engine) {
	requireAuth := middleware.Auth(h.cfg, h.sessions, h.cache)
	optionalAuth := middleware.OptionalAuth(h.cfg, h.sessions, h.cache)
	requireAdmin := middleware.RequireRoles(models.RoleAdmin)
	requireEmployee := middleware.RequireRoles(models.RoleEmployee)

	engine.POST("/register", h.RegisterUser)
	engine.POST("/login", h.Login)
	engine.GET("/logout", requireAuth, h.Logout)
	engine.POST("/submit-contact", optionalAuth, h.SubmitContact)
	engine.POST("/submit-form", requireAuth, h.SubmitForm)

	api := engine.Group("/api")
	api.GET("/healthz", h.Health)
	api.GET("/check-auth", optionalAuth, h.CheckAuth)

	authed := api.Group("", requireAuth)
	{
		authed.GET("/user-data", h.UserData)
		authed.POST("/update-profile", h.UpdateProfile)
		authed.POST("/update-security", h.UpdateSecurity)
		authed.GET("/user-metrics", h.UserMetrics)

		authed.POST("/submit-request", h.SubmitFormUpload)
		authed.GET("/user-requests", h.UserRequests)
		authed.PUT("/form-request/:id", h.UpdateFormRequest)
		authed.PUT("/contact-request/:id", h.UpdateContactRequest)

		authed.POST("/submit-task", h.SubmitTask)
		authed.GET("/user-tasks", h.UserTasks)
		authed.GET("/user-projects", h.UserProjects)
		authed.GET("/user-results", h.UserResults)
		authed.GET("/task/:id", h.GetTask)
		authed.PUT("/update-due-date/:taskId", h.UpdateDueDate)
	}

	employee := api.Group("", requireAuth, requireEmployee)
	{
		employee.GET("/employee-tasks", h.EmployeeTasks)
		employee.POST("/submit-results/:taskId", h.SubmitResults)
	}

	admin := api.Group("", requireAuth, requireAdmin)
	{
		admin.GET("/admin-tasks", h.AdminTasks)
		admin.GET("/admin-data", h.AdminData)

		admin.GET("/contact-requests", h.AdminRequests)
		admin.GET("/contact-request/:id", h.GetRequest)
		admin.PUT("/update-request-status/:id", h.UpdateRequestStatus)
		admin.DELETE("/form-requests/:id", h.DeleteFormRequest)
		admin.DELETE("/contact-requests/:id", h.DeleteContactRequest)
		admin.POST("/accept-contact/:id", h.AcceptRequest)

		admin.PUT("/assign-task/:id", h.AssignTask)
		admin.PUT("/update-task/:id", h.UpdateTask)
		admin.DELETE("/delete-task/:id", h.DeleteTask)

		admin.POST("/add-user", h.AddUser)
		admin.PUT("/update-user/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Every kind keeps
// its message; nothing is swallowed.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, apperr.ErrStorageExhausted):
		status = http.StatusInsufficientStorage
	case errors.Is(err, apperr.ErrStorageFailure):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
