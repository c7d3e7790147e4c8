package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/settings"
	"github.com/vytor/quizflash/internal/workspace"
)

// parseChoice reads the settings form. Empty fields keep their defaults.
func parseChoice(r *http.Request) (settings.Choice, error) {
	c := settings.Choice{
		Difficulty:   r.FormValue("difficulty"),
		TimerEnabled: r.FormValue("timer_enabled") != "",
		TimerMode:    r.FormValue("timer_mode"),
	}
	var err error
	if c.NumberOfQuestions, err = formInt(r, "num_questions"); err != nil {
		return c, err
	}
	if c.TimeLimitSeconds, err = formInt(r, limitField(r, c.TimerMode)); err != nil {
		return c, err
	}
	return c, nil
}

// limitField picks the limit input for the chosen mode; the HTML form renders
// one select per mode while scripts may send time_limit directly.
func limitField(r *http.Request, mode string) string {
	if r.FormValue("time_limit") != "" {
		return "time_limit"
	}
	if mode == string(models.TimerTotal) {
		return "total_limit"
	}
	return "per_question_limit"
}

func formInt(r *http.Request, key string) (int, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError(key + " must be a number")
	}
	return n, nil
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())

	choice, err := parseChoice(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	st, err := settings.FromChoice(choice)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.QuizService.StartQuiz(r.Context(), ws, st); err != nil {
		handleError(w, r, err)
		return
	}
	s.done(w, r, ws)
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := ws.SelectAnswer(r.FormValue("option")); err != nil {
		handleError(w, r, err)
		return
	}
	s.done(w, r, ws)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := s.QuizService.Retry(r.Context(), ws); err != nil {
		handleError(w, r, err)
		return
	}
	s.done(w, r, ws)
}

// action adapts a no-argument workspace method to a handler.
func (s *Server) action(fn func(*workspace.Workspace) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFromContext(r.Context())
		if err := fn(ws); err != nil {
			handleError(w, r, err)
			return
		}
		s.done(w, r, ws)
	}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).Next)(w, r)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).Previous)(w, r)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).Finish)(w, r)
}

func (s *Server) handleQuizBack(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).BackToSettings)(w, r)
}

func (s *Server) handleQuizHome(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).Home)(w, r)
}

func (s *Server) handleRetake(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).Retake)(w, r)
}

func (s *Server) handleNewTopic(w http.ResponseWriter, r *http.Request) {
	s.action((*workspace.Workspace).NewTopic)(w, r)
}
