package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
)

func (s *Server) handleSubmitTopic(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := ws.SubmitTopic(r.FormValue("topic")); err != nil {
		handleError(w, r, err)
		return
	}
	s.done(w, r, ws)
}

func (s *Server) handleSettingsBack(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := ws.BackToTopic(); err != nil {
		handleError(w, r, err)
		return
	}
	s.done(w, r, ws)
}

// handleTopicImage forwards an uploaded image to the text reader. The upload
// is buffered because the request body is gone once the handler returns.
func (s *Server) handleTopicImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	ws := workspaceFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			handleError(w, r, errors.NewBadRequestError("image is too large"))
			return
		}
		handleError(w, r, errors.NewBadRequestError("expected a multipart upload"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("image file is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("could not read image"))
		return
	}
	log.Debug("received image %s (%d bytes)", header.Filename, len(image))

	if err := s.QuizService.ExtractTopic(r.Context(), ws, filepath.Base(header.Filename), image); err != nil {
		handleError(w, r, err)
		return
	}
	s.done(w, r, ws)
}

// handleTopics lists topic suggestions, optionally filtered by prefix.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("limit must be a number"))
			return
		}
		limit = n
	}

	topics, err := s.TopicService.Suggestions(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"topics": topics})
}
