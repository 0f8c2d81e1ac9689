package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/edumarket/course-api/internal/api/handler"
	"github.com/edumarket/course-api/internal/api/middleware"
	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Courses       ports.CourseService
	Readiness     *handler.HealthDependenciesHandler
	Logger        zerolog.Logger
	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
	// Swagger mounts the API docs UI at /swagger/*.
	Swagger bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "courses",
		Registerer: deps.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	readiness := deps.Readiness
	if readiness == nil {
		readiness = handler.NewHealthDependenciesHandler()
	}
	e.GET("/health", handler.NewHealthHandler().Liveness) // liveness  – is the process alive?
	e.GET("/health/ready", readiness.Readiness)           // readiness – are dependencies up?

	// --- User routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	users := e.Group("/api/user", middleware.Trace(deps.Logger, "auth"))
	users.GET("/testAPI", authHandler.TestAPI)
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	// --- Course routes (token required) ---
	courseHandler := handler.NewCourseHandler(deps.Courses)
	// RBAC admits both roles; it rejects identities whose stored role is
	// neither, e.g. a user document edited outside the API.
	courses := e.Group("/api/courses",
		middleware.Trace(deps.Logger, "course"),
		middleware.Auth(deps.Authenticator),
		middleware.RBAC(domain.RoleInstructor, domain.RoleStudent),
	)
	courses.GET("", courseHandler.List)
	courses.GET("/", courseHandler.List)
	courses.GET("/instructor/:id", courseHandler.ListByInstructor)
	courses.GET("/student/:id", courseHandler.ListByStudent)
	courses.GET("/findByTitle/:title", courseHandler.FindByTitle)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create)
	courses.POST("/", courseHandler.Create)
	courses.POST("/enroll/:id", courseHandler.Enroll)
	courses.PATCH("/:id", courseHandler.Update)
	courses.DELETE("/:id", courseHandler.Delete)

	return e
}
