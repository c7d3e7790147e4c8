package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/workspace"
)

// Pinger is satisfied by *db.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Workspaces     *workspace.Registry
	QuizService    services.QuizService
	TopicService   services.TopicService
	Templates      *template.Template
	DB             Pinger
	MaxUploadBytes int64
	CORSOrigins    []string
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// wantsJSON reports whether the caller is a script rather than a browser form.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// done finishes a screen action: browsers go back to the current screen,
// scripts get the new state.
func (s *Server) done(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, ws.View())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
