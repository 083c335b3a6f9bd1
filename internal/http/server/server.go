package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/domain/models"
	"shortlink/internal/http/handlers/createlink"
	"shortlink/internal/http/handlers/getindex"
	"shortlink/internal/http/handlers/getping"
	"shortlink/internal/http/handlers/listlinks"
	"shortlink/internal/http/handlers/login"
	"shortlink/internal/http/handlers/middlewares/auth"
	"shortlink/internal/http/handlers/middlewares/logger"
	"shortlink/internal/http/handlers/middlewares/requestid"
	"shortlink/internal/http/handlers/redirect"
	"shortlink/internal/http/handlers/register"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type AuthService interface {
	Register(ctx context.Context, username, secret string) (models.User, error)
	Login(ctx context.Context, username, secret string) (string, error)
	VerifyToken(tokenString string) (models.TokenClaims, error)
}

type LinkService interface {
	Shorten(ctx context.Context, userID int64, originalURL, requestedCode string) (models.ShortLink, error)
	Resolve(ctx context.Context, code string) (models.ShortLink, error)
	UserLinks(ctx context.Context, userID int64) ([]models.ShortLink, error)
	ShortURL(code string) string
	PingStorage(ctx context.Context) error
}

type Server struct {
	httpServer  *http.Server
	router      *mux.Router
	log         *zerolog.Logger
	authService AuthService
	linkService LinkService
	cfg         config.Config
}

func NewServer(log *zerolog.Logger, cfg config.Config, authService AuthService, linkService LinkService) (*Server, error) {
	if cfg.ServerAddress == "" {
		return nil, errors.New("server address cannot be empty")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if authService == nil || linkService == nil {
		return nil, errors.New("services cannot be nil")
	}

	s := &Server{
		router:      mux.NewRouter(),
		log:         log,
		authService: authService,
		linkService: linkService,
		cfg:         cfg,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(requestid.MiddlewareRequestID())
	s.router.Use(logger.MiddlewareLogging(s.log))

	// Public routes (without auth)
	s.router.HandleFunc("/ping", getping.HandlerPing(s.linkService)).Methods("GET")
	s.router.HandleFunc("/register", register.HandlerRegister(s.authService)).Methods("POST")
	s.router.HandleFunc("/login", login.HandlerLogin(s.authService)).Methods("POST")
	s.router.HandleFunc("/", getindex.HandlerGetIndex()).Methods("GET")

	// Protected routes (with auth)
	authRouter := s.router.PathPrefix("/").Subrouter()
	authRouter.Use(auth.MiddlewareAuth(s.authService))
	authRouter.HandleFunc("/my-urls", listlinks.HandlerListLinks(s.linkService)).Methods("GET")
	authRouter.HandleFunc("/shorturls", createlink.HandlerCreateLink(s.linkService)).Methods("POST")

	// Catch-all, must stay last so it never shadows the routes above.
	s.router.HandleFunc("/{shortcode}", redirect.HandlerRedirect(s.linkService)).Methods("GET")
}

func (s *Server) Start(ctx context.Context) error {
	s.log.Info().Str("address", s.cfg.ServerAddress).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
