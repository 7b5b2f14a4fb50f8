package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"autoboard/internal/auth"
	"autoboard/internal/service"
	"autoboard/internal/storage"
)

// Server provides HTTP handlers for the task board backend.
type Server struct {
	engine   *gin.Engine
	verifier auth.Verifier
	logger   *slog.Logger

	tasks    *service.TaskService
	logs     *service.ActivityLogService
	projects *service.ProjectService
	users    *service.UserService
	statuses *service.TaskStatusService

	corsOrigins []string
}

// Option customizes the server.
type Option func(*Server)

// WithCORSOrigins allows browser clients from the given origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *storage.Store, verifier auth.Verifier, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:   router,
		verifier: verifier,
		logger:   logger,
		tasks:    service.NewTaskService(store, logger),
		logs:     service.NewActivityLogService(store, logger),
		projects: service.NewProjectService(store),
		users:    service.NewUserService(store),
		statuses: service.NewTaskStatusService(store),
	}
	for _, opt := range opts {
		opt(srv)
	}

	router.Use(requestLogger(logger))
	if len(srv.corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  srv.corsOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length", requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		logs := api.Group("/activity-log")
		{
			logs.GET("/task/:taskId", s.handleLogsByTask)
			logs.GET("/project/:projectId", s.handleLogsByProject)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.GET("/:id", s.handleGetTask)
			tasks.POST("", s.requireToken(), s.handleCreateTask)
			tasks.PUT("/:id", s.requireToken(), s.handleUpdateTask)
			tasks.PUT("/:id/assign", s.requireToken(), s.handleAssignTask)
			tasks.DELETE("/:id", s.requireToken(), s.handleDeleteTask)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.GET("/:id/tasks", s.handleListProjectTasks)
			projects.POST("", s.requireToken(), s.handleCreateProject)
			projects.PUT("/:id", s.requireToken(), s.handleUpdateProject)
			projects.DELETE("/:id", s.requireToken(), s.handleDeleteProject)
		}

		statuses := api.Group("/task-status")
		{
			statuses.GET("", s.handleListStatuses)
			statuses.POST("", s.requireToken(), s.handleCreateStatus)
		}

		users := api.Group("/users")
		{
			users.GET("", s.handleListUsers)
			users.GET("/me", s.requireToken(), s.handleMe)
			users.GET("/:id", s.handleGetUser)
			users.POST("", s.requireToken(), s.handleCreateUser)
		}
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("request_id", requestID(c)),
			slog.Any("error", err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// fail maps a service error onto its status code.
func (s *Server) fail(c *gin.Context, err error) {
	s.respondError(c, statusOf(err), err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case storage.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondSuccess writes the payload as JSON.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
