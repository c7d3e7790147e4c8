package api

import (
	"net/http"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/settings"
	"github.com/vytor/quizflash/internal/workspace"
)

const popularTopicCount = 6

// handleHome renders whichever screen the workspace is on.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	ws := workspaceFromContext(r.Context())
	v := ws.View()
	log.Debug("rendering %s screen", v.Stage)

	data := pageData{"view": v, "refresh": needsRefresh(v)}

	switch {
	case v.Settings != nil:
		data["choices"] = settingsChoices(v.Settings.Current)
		s.render(w, r, "pages/settings.html", data)
	case v.Quiz != nil:
		s.render(w, r, "pages/quiz.html", data)
	case v.Results != nil:
		s.render(w, r, "pages/results.html", data)
	default:
		topics, err := s.TopicService.Suggestions(r.Context(), "", popularTopicCount)
		if err != nil {
			log.Warn("failed to load popular topics: %v", err)
		}
		data["popular"] = topics
		s.render(w, r, "pages/topic.html", data)
	}
}

// needsRefresh keeps the page polling while something changes on its own.
func needsRefresh(v workspace.View) bool {
	if v.Extracting {
		return true
	}
	if v.Quiz != nil {
		return v.Quiz.State == "loading" || v.Quiz.TimerRunning
	}
	return false
}

// settingsChoices lists the form options. Each limit select preselects the
// current limit when its mode is active and the mode default otherwise, so
// switching the timer on posts the documented defaults.
func settingsChoices(cur models.Settings) pageData {
	mode := cur.TimerMode()
	perQuestion, total := settings.DefaultPerQuestionLimit, settings.DefaultTotalLimit
	switch mode {
	case models.TimerPerQuestion:
		perQuestion = cur.TimeLimitSeconds()
	case models.TimerTotal:
		total = cur.TimeLimitSeconds()
	default:
		mode = models.TimerPerQuestion
	}
	return pageData{
		"questionCounts":      settings.QuestionCounts,
		"difficulties":        settings.Difficulties,
		"timerModes":          settings.TimerModes,
		"perQuestionLimits":   settings.PerQuestionLimits,
		"totalLimits":         settings.TotalLimits,
		"timerMode":           mode,
		"perQuestionSelected": perQuestion,
		"totalSelected":       total,
	}
}

// handleState returns the workspace snapshot as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	writeJSON(w, r, http.StatusOK, ws.View())
}
