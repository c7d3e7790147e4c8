package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes builds the router. static may be nil when no assets are served.
func (s *Server) Routes(static fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.workspaceMiddleware)

		r.Get("/", s.handleHome)
		r.Post("/topic", s.handleSubmitTopic)
		r.Post("/topic/image", s.handleTopicImage)
		r.Post("/settings/back", s.handleSettingsBack)
		r.Post("/settings/start", s.handleStartQuiz)
		r.Post("/quiz/answer", s.handleSelectAnswer)
		r.Post("/quiz/next", s.handleNext)
		r.Post("/quiz/prev", s.handlePrevious)
		r.Post("/quiz/finish", s.handleFinish)
		r.Post("/quiz/back", s.handleQuizBack)
		r.Post("/quiz/retry", s.handleRetry)
		r.Post("/quiz/home", s.handleQuizHome)
		r.Post("/results/retake", s.handleRetake)
		r.Post("/results/new", s.handleNewTopic)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Get("/topics", s.handleTopics)
		r.With(s.workspaceMiddleware).Get("/state", s.handleState)
	})

	return r
}
