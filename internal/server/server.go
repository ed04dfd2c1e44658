package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskflow-app/apiserver/config"
	"github.com/taskflow-app/apiserver/internal/db"
	"github.com/taskflow-app/apiserver/internal/events"
	"github.com/taskflow-app/apiserver/internal/handlers"
	"github.com/taskflow-app/apiserver/internal/services"
	"github.com/taskflow-app/apiserver/internal/storage"
	"github.com/taskflow-app/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
}

// New constructs a Server with its full dependency graph: database,
// repositories, services, optional avatar storage and event broker.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	avatarStore, err := newAvatarStore(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	projectRepo := store.NewProjectRepository(dbConn)
	memberRepo := store.NewMemberRepository(dbConn)
	issueRepo := store.NewIssueRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)

	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	memberService := services.NewMemberService(memberRepo, projectRepo, userRepo)
	issueService := services.NewIssueService(issueRepo, commentRepo, publisher)

	projectHandler := handlers.NewProjectHandler(projectService, memberService, userService)
	issueHandler := handlers.NewIssueHandler(issueService, memberService)
	userHandler := handlers.NewUserHandler(userService, avatarStore)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/projects", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.ProjectRouter(r, projectHandler, issueHandler)
	})
	router.Route("/issues", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.IssueRouter(r, issueHandler)
	})
	router.Route("/users", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.UserRouter(r, userHandler)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

func newAvatarStore(ctx context.Context, cfg config.Config) (*storage.AvatarStore, error) {
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case "minio":
		backend, err := storage.NewMinioBackend(cfg.Storage.Minio, cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		avatars := storage.NewAvatarStore(backend)
		if err := avatars.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return avatars, nil
	case "gcs":
		backend, err := storage.NewGCSBackend(ctx, cfg.Storage.GCS, cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		avatars := storage.NewAvatarStore(backend)
		if err := avatars.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return avatars, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, error) {
	switch cfg.Events.Backend {
	case "":
		slog.Info("issue events disabled, no broker configured")
		return nil, nil
	case "rabbitmq":
		backend, err := events.NewRabbitMQBackend(cfg.Events.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend, cfg.Events.Channel), nil
	case "pubsub":
		backend, err := events.NewPubSubBackend(ctx, cfg.Events.PubSub)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend, cfg.Events.Channel), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}
