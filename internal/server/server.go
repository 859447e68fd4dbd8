package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/shopsmart-app/backend/internal/api"
	"github.com/shopsmart-app/backend/internal/middleware"
	"github.com/shopsmart-app/backend/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// Deps bundles the services the HTTP layer is wired with.
type Deps struct {
	DB      *gorm.DB
	Auth    service.IAuthService
	Lists   service.IListService
	Users   service.IUserService
	Storage service.IStorageService
	Account service.IAccountService
	Cache   api.ImageURLCache
}

// New creates a new server instance with all routes registered.
func New(deps Deps) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	authHandler := api.NewAuthHandler(deps.Auth)
	authHandler.RegisterRoutes(v1)

	listHandler := api.NewListHandler(deps.Lists)
	listHandler.RegisterRoutes(v1, deps.Auth)

	profileHandler := api.NewProfileHandler(deps.Users, deps.Storage, deps.Account, deps.Cache)
	profileHandler.RegisterRoutes(v1, deps.Auth)

	return &Server{
		router: router,
		db:     deps.DB,
	}
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server on the given address and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	slog.Info("starting http server", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
