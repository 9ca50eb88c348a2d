// Package httpapi exposes the elib REST surface over gin: the public auth and
// catalog routes, the session-guarded user and book routes, and the single
// place where service errors become HTTP responses.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mzfirozuddin/elib-apis/internal/filex"
	"github.com/mzfirozuddin/elib-apis/internal/logging"
	"github.com/mzfirozuddin/elib-apis/internal/server/config"
	"github.com/mzfirozuddin/elib-apis/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Server wires the gin engine to the services.
type Server struct {
	cfg       *config.Config
	logger    logging.Logger
	users     *services.UserService
	books     *services.BookService
	engine    *gin.Engine
	uploadDir string
}

// NewServer builds the engine, the middleware chain and the route table.
func NewServer(cfg *config.Config, logger logging.Logger, users *services.UserService, books *services.BookService) (*Server, error) {
	uploadDir, err := filex.EnsureSubDir(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		users:     users,
		books:     books,
		engine:    gin.New(),
		uploadDir: uploadDir,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), s.cors())
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health-check", s.handleHealthCheck)

	api := s.engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", s.handleRegister)
	user.POST("/login", s.handleLogin)
	user.POST("/refresh-tokens", s.handleRefreshTokens)

	userSecured := user.Group("", s.requireSession())
	userSecured.POST("/logout", s.handleLogout)
	userSecured.GET("/self", s.handleSelf)
	userSecured.POST("/change-password", s.handleChangePassword)
	userSecured.POST("/update-profile", s.handleUpdateProfile)
	userSecured.POST("/update-avatar", s.handleUpdateAvatar)

	books := api.Group("/books")
	books.GET("/allBooks", s.handleAllBooks)
	books.GET("/:bookId", s.handleGetBook)

	booksSecured := books.Group("", s.requireSession())
	booksSecured.POST("/create", s.handleCreateBook)
	booksSecured.PATCH("/update/:bookId", s.handleUpdateBook)
	booksSecured.GET("/userBooks", s.handleUserBooks)
	booksSecured.DELETE("/:bookId", s.handleDeleteBook)
}

// Handler returns the engine as an http.Handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
