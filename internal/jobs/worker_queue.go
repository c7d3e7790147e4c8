package jobs

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quizapi"
	"github.com/vytor/quizflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool   *worker.Pool
	client quizapi.ClientInterface
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, client quizapi.ClientInterface) JobQueue {
	return &WorkerQueue{pool: pool, client: client}
}

func (q *WorkerQueue) EnqueueGenerate(scope context.Context, req models.QuizRequest, deliver func(models.QuizData, error)) error {
	return q.pool.Submit(&worker.GenerateQuizJob{
		Client:  q.client,
		Request: req,
		Scope:   scope,
		Deliver: deliver,
	})
}

func (q *WorkerQueue) EnqueueExtract(scope context.Context, filename string, image []byte, deliver func(string, error)) error {
	return q.pool.Submit(&worker.ExtractTextJob{
		Client:   q.client,
		Filename: filename,
		Image:    image,
		Scope:    scope,
		Deliver:  deliver,
	})
}
