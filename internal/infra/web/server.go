package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"aiblty-platform/internal/domain/ports/repository"
	"aiblty-platform/internal/usecase"
)

type Server struct {
	runUC     usecase.RunUseCase
	jobsUC    usecase.JobWatchUseCase
	chatUC    usecase.ChatUseCase
	usageUC   usecase.UsageUseCase
	artifacts repository.ArtifactRepository
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	runUC usecase.RunUseCase,
	jobsUC usecase.JobWatchUseCase,
	chatUC usecase.ChatUseCase,
	usageUC usecase.UsageUseCase,
	artifacts repository.ArtifactRepository,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		runUC:     runUC,
		jobsUC:    jobsUC,
		chatUC:    chatUC,
		usageUC:   usageUC,
		artifacts: artifacts,
		auth:      auth,
		log:       logger,
	}
}

// Router assembles the public API. Everything under /api/v1 requires a
// valid bearer token; health and metrics stay open for the infrastructure.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Get("/capabilities", s.listCapabilities)
		r.Post("/capabilities/{capability}/run", s.runCapability)
		r.Post("/capabilities/{capability}/jobs", s.enqueueCapability)

		r.Get("/jobs", s.listJobs)
		r.Get("/jobs/{id}", s.getJob)
		r.Get("/jobs/{id}/artifacts", s.listJobArtifacts)

		r.Get("/artifacts", s.listArtifacts)
		r.Get("/artifacts/{id}", s.getArtifact)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", s.listConversations)
			r.Post("/", s.createConversation)
			r.Get("/{id}", s.getConversation)
			r.Delete("/{id}", s.deleteConversation)
			r.Patch("/{id}", s.renameConversation)
			r.Post("/{id}/messages", s.sendMessage)
		})

		r.Get("/usage", s.usageStatus)
	})

	return r
}
