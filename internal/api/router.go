package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hrmanager/hrm-api/docs"
	"github.com/hrmanager/hrm-api/internal/api/handler"
	"github.com/hrmanager/hrm-api/internal/api/middleware"
	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

const defaultBodyLimit = "50M"

// Resource is the route set of one kind. A nil handler leaves the route out.
type Resource struct {
	Kind   domain.Kind
	List   echo.HandlerFunc
	Get    echo.HandlerFunc
	Create echo.HandlerFunc
	Update echo.HandlerFunc
	Delete echo.HandlerFunc
}

// Routes exposes actions of h. With no actions every operation is routed.
func Routes[T any](h *handler.ResourceHandler[T], actions ...domain.Action) Resource {
	if len(actions) == 0 {
		actions = []domain.Action{domain.ActionList, domain.ActionGet, domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete}
	}
	r := Resource{Kind: h.Kind()}
	for _, a := range actions {
		switch a {
		case domain.ActionList:
			r.List = h.List
		case domain.ActionGet:
			r.Get = h.Get
		case domain.ActionCreate:
			r.Create = h.Create
		case domain.ActionUpdate:
			r.Update = h.Update
		case domain.ActionDelete:
			r.Delete = h.Delete
		}
	}
	return r
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	Verifier  ports.TokenVerifier
	Policy    ports.Policy
	Auth      ports.AuthService
	Install   ports.InstallService
	Resources []Resource
	Health    map[string]handler.Pinger
	Version   string
	BodyLimit string
	// StaticDir, when set, serves a single page front-end from that directory.
	StaticDir string
	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil means
	// the default Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	bodyLimit := d.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics(d.Registerer))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	if d.StaticDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:    d.StaticDir,
			HTML5:   true,
			Skipper: isBackendPath,
		}))
	}

	// --- Public routes ---
	installHandler := handler.NewInstallHandler(d.Install, d.Version)
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := middleware.Auth(d.Verifier)

	api := e.Group("/api")
	api.GET("/version", installHandler.Version)
	api.GET("/initial", installHandler.Initial)
	api.POST("/install", installHandler.Install)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout, auth)

	// --- Resource routes (token required for the whole /api/<kind> prefix) ---
	for _, r := range d.Resources {
		registerResource(api, r, auth, d.Policy)
	}

	// --- Operations ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Health).Readiness)
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// registerResource mounts one kind under its own group so the gate runs before
// routing decisions: an unrouted method or path under the prefix answers 401
// to anonymous callers and 405/404 only to authenticated ones.
func registerResource(api *echo.Group, r Resource, auth echo.MiddlewareFunc, policy ports.Policy) {
	g := api.Group("/"+string(r.Kind), auth)

	route := func(method, path string, h echo.HandlerFunc, a domain.Action) {
		if h == nil {
			g.Add(method, path, methodNotAllowed)
			return
		}
		g.Add(method, path, h, middleware.Authorize(policy, r.Kind, a))
	}
	route(http.MethodGet, "", r.List, domain.ActionList)
	route(http.MethodPost, "", r.Create, domain.ActionCreate)
	route(http.MethodGet, "/:id", r.Get, domain.ActionGet)
	route(http.MethodPut, "/:id", r.Update, domain.ActionUpdate)
	route(http.MethodDelete, "/:ids", r.Delete, domain.ActionDelete)
}

func methodNotAllowed(echo.Context) error {
	return echo.ErrMethodNotAllowed
}

func isBackendPath(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range []string{"/api", "/health", "/metrics", "/swagger"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
