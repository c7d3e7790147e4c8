package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/testutil/mocks"
)

func TestSuggestions(t *testing.T) {
	repo := new(mocks.MockTopicRepository)
	svc := services.NewTopicService(repo)
	want := []models.TopicSuggestion{{ID: 1, Name: "Biology"}}
	repo.On("List", mock.Anything, models.TopicFilter{Query: "bi", Limit: 3}).Return(want, nil)

	got, err := svc.Suggestions(context.Background(), "bi", 3)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSuggestionsEmptyIsNotNil(t *testing.T) {
	repo := new(mocks.MockTopicRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	got, err := services.NewTopicService(repo).Suggestions(context.Background(), "zz", 0)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestionsErrors(t *testing.T) {
	repo := new(mocks.MockTopicRepository)
	svc := services.NewTopicService(repo)

	_, err := svc.Suggestions(context.Background(), "", -1)
	assert.True(t, stderrors.Is(err, errors.ErrValidation))

	repo.On("List", mock.Anything, mock.Anything).Return(nil, stderrors.New("locked"))
	_, err = svc.Suggestions(context.Background(), "", 5)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
}

func TestRecordStartCountsCatalogTopic(t *testing.T) {
	repo := new(mocks.MockTopicRepository)
	repo.On("Get", mock.Anything, "space science").Return(&models.TopicSuggestion{ID: 6, Name: "Space Science"}, nil)
	repo.On("RecordStart", mock.Anything, "Space Science").Return(&models.TopicSuggestion{ID: 6, Name: "Space Science", TimesStarted: 1}, nil)

	services.NewTopicService(repo).RecordStart(context.Background(), " space science ")

	repo.AssertExpectations(t)
}

func TestRecordStartSkipsFreeTextTopic(t *testing.T) {
	repo := new(mocks.MockTopicRepository)
	repo.On("Get", mock.Anything, "my private notes").Return(nil, errors.NewNotFoundError("topic", "my private notes"))

	services.NewTopicService(repo).RecordStart(context.Background(), "my private notes")

	repo.AssertNotCalled(t, "RecordStart", mock.Anything, mock.Anything)
}

func TestRecordStartLookupFailureIsIgnored(t *testing.T) {
	repo := new(mocks.MockTopicRepository)
	repo.On("Get", mock.Anything, "Biology").Return(nil, stderrors.New("locked"))

	services.NewTopicService(repo).RecordStart(context.Background(), "Biology")

	repo.AssertNotCalled(t, "RecordStart", mock.Anything, mock.Anything)
}
