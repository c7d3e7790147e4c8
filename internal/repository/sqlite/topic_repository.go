package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	apperrors "github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

const (
	defaultTopicLimit = 6
	maxTopicLimit     = 50
)

type topicRepository struct {
	db *sql.DB
}

// NewTopicRepository creates a new TopicRepository implementation
func NewTopicRepository(db *sql.DB) repository.TopicRepository {
	return &topicRepository{db: db}
}

var topicColumns = []string{"id", "name", "times_started", "created_at"}

// List returns topics whose name starts with filter.Query (case-insensitive),
// most started first.
func (r *topicRepository) List(ctx context.Context, filter models.TopicFilter) ([]models.TopicSuggestion, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTopicLimit
	}
	if limit > maxTopicLimit {
		limit = maxTopicLimit
	}

	query := sqlBuilder.Select(topicColumns...).
		From("topics").
		OrderBy("times_started DESC", "name ASC").
		Limit(uint64(limit))
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where(squirrel.Expr(`name LIKE ? ESCAPE '\'`, likeEscaper.Replace(q)+"%"))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build topic query: %v", err)
		return nil, err
	}
	log.Debug("listing topics: query=%q limit=%d", filter.Query, limit)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list topics: %v", err)
		return nil, err
	}
	defer rows.Close()

	var topics []models.TopicSuggestion
	for rows.Next() {
		var t models.TopicSuggestion
		if err := rows.Scan(&t.ID, &t.Name, &t.TimesStarted, &t.CreatedAt); err != nil {
			log.Error("failed to scan topic row: %v", err)
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *topicRepository) Get(ctx context.Context, name string) (*models.TopicSuggestion, error) {
	sqlStr, args, err := sqlBuilder.Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var t models.TopicSuggestion
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&t.ID, &t.Name, &t.TimesStarted, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("topic", name)
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("topic_repo").Error("failed to get topic: %v", err)
		return nil, err
	}
	return &t, nil
}

// RecordStart bumps the start counter of a catalog topic. Names outside the
// catalog are never stored; they return a not-found error.
func (r *topicRepository) RecordStart(ctx context.Context, name string) (*models.TopicSuggestion, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewEmptyTopicError()
	}

	var t models.TopicSuggestion
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		update, args, err := sqlBuilder.Update("topics").
			Set("times_started", squirrel.Expr("times_started + 1")).
			Where(squirrel.Eq{"name": name}).
			Suffix("RETURNING id, name, times_started, created_at").
			ToSql()
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, update, args...).Scan(&t.ID, &t.Name, &t.TimesStarted, &t.CreatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("topic", name)
	}
	if err != nil {
		log.Error("failed to record topic start: %v", err)
		return nil, err
	}
	log.Debug("topic %q started %d times", t.Name, t.TimesStarted)
	return &t, nil
}
