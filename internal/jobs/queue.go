package jobs

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// JobQueue provides an abstraction for running the remote calls in the
// background. Deliver is invoked exactly once per accepted job unless the
// queue shuts down first. scope is cancelled to abandon the call.
type JobQueue interface {
	EnqueueGenerate(scope context.Context, req models.QuizRequest, deliver func(models.QuizData, error)) error
	EnqueueExtract(scope context.Context, filename string, image []byte, deliver func(string, error)) error
}
