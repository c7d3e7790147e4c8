package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/navigation"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/workspace"
)

// toAppError maps domain errors onto HTTP-aware AppErrors.
func toAppError(err error) *errors.AppError {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	switch {
	case stderrors.Is(err, workspace.ErrRequestInFlight):
		return errors.NewConflictError("a request is already in progress", err)
	case stderrors.Is(err, workspace.ErrAnswerRequired):
		return errors.NewBadRequestError("select an answer first")
	case stderrors.Is(err, quiz.ErrUnknownOption):
		return errors.NewBadRequestError("that option is not part of this question")
	case stderrors.Is(err, quiz.ErrInvalidState),
		stderrors.Is(err, navigation.ErrInvalidTransition),
		stderrors.Is(err, workspace.ErrClosed):
		return errors.NewConflictError("that action is not available on this screen", err)
	}
	return errors.NewInternalError(err)
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	appErr := toAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	if wantsJSON(r) {
		writeJSON(w, r, appErr.Status, map[string]any{
			"error": map[string]any{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	// Browsers stay on their screen and see the message there.
	if ws := workspaceFromContext(r.Context()); ws != nil {
		ws.SetNotice(appErr.Message)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Error(w, appErr.Message, appErr.Status)
}
