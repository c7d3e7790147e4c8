package workspace

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/navigation"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/settings"
)

// idleTicker never fires; tests drive ticks through fireTick.
type idleTicker struct{ stopped bool }

func (t *idleTicker) C() <-chan time.Time { return nil }
func (t *idleTicker) Stop()               { t.stopped = true }

type harness struct {
	ws      *Workspace
	tickers []*idleTicker
	notes   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{}
	h.ws = New("test",
		WithTickerFactory(func(time.Duration) Ticker {
			tk := &idleTicker{}
			h.tickers = append(h.tickers, tk)
			return tk
		}),
		WithNotify(func() { h.notes++ }),
	)
	t.Cleanup(h.ws.Close)
	return h
}

func (h *harness) fireTick() {
	h.ws.mu.Lock()
	d := h.ws.timer
	h.ws.mu.Unlock()
	if d != nil {
		h.ws.tick(d)
	}
}

func (h *harness) timerActive() bool {
	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()
	return h.ws.timer != nil
}

func sampleQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			Prompt:        "Which?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectOption: "B",
		}
	}
	return qs
}

func (h *harness) startQuiz(t *testing.T, s models.Settings, n int) LoadRequest {
	t.Helper()
	require.NoError(t, h.ws.SubmitTopic("Biology"))
	req, err := h.ws.StartQuiz(s)
	require.NoError(t, err)
	h.ws.CompleteLoad(req.Token, sampleQuestions(n), nil)
	return req
}

func TestTopicToSettings(t *testing.T) {
	h := newHarness(t)

	err := h.ws.SubmitTopic("   ")
	assert.True(t, stderrors.Is(err, errors.ErrEmptyTopic))

	require.NoError(t, h.ws.SubmitTopic(" Biology "))
	v := h.ws.View()
	assert.Equal(t, "settings", v.Stage)
	require.NotNil(t, v.Settings)
	assert.Equal(t, "Biology", v.Settings.Topic)
	assert.Equal(t, settings.Default(), v.Settings.Current)

	require.NoError(t, h.ws.BackToTopic())
	assert.Equal(t, "Biology", h.ws.View().TopicDraft)
}

func TestQuizLoadAndAnswer(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ws.SubmitTopic("Biology"))
	req, err := h.ws.StartQuiz(settings.Default())
	require.NoError(t, err)

	assert.Equal(t, "Biology", req.Request.Topic)
	assert.Equal(t, 10, req.Request.NumberOfQuestions)
	v := h.ws.View()
	require.NotNil(t, v.Quiz)
	assert.Equal(t, "loading", v.Quiz.State)

	h.ws.CompleteLoad(req.Token, sampleQuestions(2), nil)
	assert.Equal(t, 1, h.notes)
	assert.Error(t, req.Ctx.Err(), "request context is released after completion")

	v = h.ws.View()
	assert.Equal(t, "answering", v.Quiz.State)
	require.NotNil(t, v.Quiz.Question)
	assert.False(t, h.timerActive(), "untimed quiz has no driver")

	assert.ErrorIs(t, h.ws.Next(), ErrAnswerRequired)
	require.NoError(t, h.ws.SelectAnswer("B"))
	require.NoError(t, h.ws.Next())
	require.NoError(t, h.ws.SelectAnswer("A"))
	require.NoError(t, h.ws.Next())

	v = h.ws.View()
	assert.Equal(t, "results", v.Stage)
	require.NotNil(t, v.Results)
	assert.Equal(t, 50, v.Results.Result.Score)
	assert.Equal(t, 50, v.Results.Result.Accuracy)
	assert.Len(t, v.Results.Review, 2)
}

func TestSelectUnknownOption(t *testing.T) {
	h := newHarness(t)
	h.startQuiz(t, settings.Default(), 1)

	assert.ErrorIs(t, h.ws.SelectAnswer("Z"), quiz.ErrUnknownOption)
}

func TestZeroQuestionsGoStraightToResults(t *testing.T) {
	h := newHarness(t)
	h.startQuiz(t, settings.Default(), 0)

	v := h.ws.View()
	assert.Equal(t, "results", v.Stage)
	assert.Equal(t, 0, v.Results.Result.TotalQuestions)
	assert.Equal(t, 0, v.Results.Result.Score)
}

func TestFailedLoadAndRecovery(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ws.SubmitTopic("Biology"))
	req, err := h.ws.StartQuiz(settings.Default())
	require.NoError(t, err)

	h.ws.CompleteLoad(req.Token, nil, errors.NewNetworkError("/api/generateQuiz", stderrors.New("refused")))

	v := h.ws.View()
	assert.Equal(t, "failed", v.Quiz.State)
	assert.Contains(t, v.Quiz.Error, "Could not reach")

	retry, err := h.ws.Retry()
	require.NoError(t, err)
	assert.NotEqual(t, req.Token, retry.Token)
	assert.Equal(t, "loading", h.ws.View().Quiz.State)

	h.ws.CompleteLoad(retry.Token, nil, errors.NewMalformedResponseError("/api/generateQuiz", nil))
	require.NoError(t, h.ws.Home())
	assert.Equal(t, navigation.StageTopicEntry, h.ws.Stage())
}

func TestStaleLoadIgnoredAfterLeaving(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ws.SubmitTopic("Biology"))
	req, err := h.ws.StartQuiz(settings.Default())
	require.NoError(t, err)

	require.NoError(t, h.ws.BackToSettings())
	assert.Error(t, req.Ctx.Err(), "leaving cancels the request")

	h.ws.CompleteLoad(req.Token, sampleQuestions(3), nil)
	assert.Equal(t, 0, h.notes)
	assert.Equal(t, "settings", h.ws.View().Stage)

	second, err := h.ws.StartQuiz(settings.Default())
	require.NoError(t, err)
	h.ws.CompleteLoad(req.Token, sampleQuestions(3), nil)
	assert.Equal(t, "loading", h.ws.View().Quiz.State, "old token must not fill the new session")

	h.ws.CompleteLoad(second.Token, sampleQuestions(3), nil)
	assert.Equal(t, "answering", h.ws.View().Quiz.State)
}

func TestPerQuestionTimerAutoAdvances(t *testing.T) {
	h := newHarness(t)
	h.startQuiz(t, settings.WithTimerEnabled(settings.Default(), true), 2)
	require.True(t, h.timerActive())

	for i := 0; i < 30; i++ {
		h.fireTick()
	}

	v := h.ws.View()
	assert.Equal(t, 1, v.Quiz.Progress.Index)
	assert.Equal(t, 30, v.Quiz.TimeRemaining)
	assert.True(t, h.timerActive())
	assert.True(t, h.tickers[0].stopped, "driver restarts on a new question")

	for i := 0; i < 30; i++ {
		h.fireTick()
	}
	assert.Equal(t, "results", h.ws.View().Stage)
	assert.False(t, h.timerActive())
}

func TestTotalTimerFinishes(t *testing.T) {
	h := newHarness(t)
	s, err := settings.WithTimerMode(settings.WithTimerEnabled(settings.Default(), true), models.TimerTotal)
	require.NoError(t, err)
	h.startQuiz(t, s, 3)

	for i := 0; i < 300; i++ {
		h.fireTick()
	}

	v := h.ws.View()
	assert.Equal(t, "results", v.Stage)
	assert.Equal(t, 0, v.Results.Result.AnsweredCount)
	assert.False(t, h.timerActive())
}

func TestTimerStopsWhenLeavingQuiz(t *testing.T) {
	h := newHarness(t)
	h.startQuiz(t, settings.WithTimerEnabled(settings.Default(), true), 3)
	require.True(t, h.timerActive())

	require.NoError(t, h.ws.BackToSettings())

	assert.False(t, h.timerActive())
	assert.True(t, h.tickers[len(h.tickers)-1].stopped)
}

func TestFinishEarlyAndRetake(t *testing.T) {
	h := newHarness(t)
	h.startQuiz(t, settings.Default(), 3)
	require.NoError(t, h.ws.SelectAnswer("B"))

	require.NoError(t, h.ws.Finish())
	v := h.ws.View()
	assert.Equal(t, "results", v.Stage)
	assert.Equal(t, 1, v.Results.Result.AnsweredCount)
	assert.Equal(t, 33, v.Results.Result.Score)
	assert.Equal(t, 100, v.Results.Result.Accuracy)

	assert.ErrorIs(t, h.ws.BackToSettings(), navigation.ErrInvalidTransition)
	require.NoError(t, h.ws.Retake())
	assert.Equal(t, "Biology", h.ws.View().Settings.Topic)
}

func TestNewTopicClearsDraft(t *testing.T) {
	h := newHarness(t)
	h.startQuiz(t, settings.Default(), 1)
	require.NoError(t, h.ws.Finish())

	require.NoError(t, h.ws.NewTopic())

	v := h.ws.View()
	assert.Equal(t, "topic", v.Stage)
	assert.Empty(t, v.TopicDraft)
}

func TestExtractionFillsTopic(t *testing.T) {
	h := newHarness(t)

	req, err := h.ws.BeginExtraction()
	require.NoError(t, err)
	_, err = h.ws.BeginExtraction()
	assert.ErrorIs(t, err, ErrRequestInFlight)
	assert.True(t, h.ws.View().Extracting)

	h.ws.CompleteExtraction(req.Token, "\n  Photosynthesis\nLight and dark reactions", nil)

	v := h.ws.View()
	assert.False(t, v.Extracting)
	assert.Equal(t, "Photosynthesis", v.TopicDraft)
	assert.Equal(t, "Photosynthesis\nLight and dark reactions", v.Context)

	require.NoError(t, h.ws.SubmitTopic(v.TopicDraft))
	load, err := h.ws.StartQuiz(settings.Default())
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis\nLight and dark reactions", load.Request.Context)
}

func TestExtractionWithoutText(t *testing.T) {
	h := newHarness(t)
	req, err := h.ws.BeginExtraction()
	require.NoError(t, err)

	h.ws.CompleteExtraction(req.Token, "  ", nil)

	v := h.ws.View()
	assert.Equal(t, "No text found in the image.", v.Notice)
	assert.Empty(t, v.TopicDraft)
}

func TestExtractionFailureAndStaleToken(t *testing.T) {
	h := newHarness(t)
	req, err := h.ws.BeginExtraction()
	require.NoError(t, err)

	h.ws.CompleteExtraction(req.Token+100, "ignored", nil)
	assert.True(t, h.ws.View().Extracting)

	h.ws.CompleteExtraction(req.Token, "", errors.NewNetworkError("/api/readImage", nil))
	v := h.ws.View()
	assert.False(t, v.Extracting)
	assert.NotEmpty(t, v.Notice)

	h.ws.CompleteExtraction(req.Token, "late", nil)
	assert.Empty(t, h.ws.View().TopicDraft)
}

func TestClosedWorkspaceRejectsEvents(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ws.SubmitTopic("Biology"))
	req, err := h.ws.StartQuiz(settings.Default())
	require.NoError(t, err)

	h.ws.Close()

	assert.Error(t, req.Ctx.Err())
	assert.ErrorIs(t, h.ws.Finish(), ErrClosed)
	h.ws.CompleteLoad(req.Token, sampleQuestions(1), nil)
	assert.Equal(t, 0, h.notes)
}

func TestIllegalActionsReportTransitionErrors(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.ws.Next(), navigation.ErrInvalidTransition)
	assert.ErrorIs(t, h.ws.NewTopic(), navigation.ErrInvalidTransition)
	_, err := h.ws.Retry()
	assert.ErrorIs(t, err, navigation.ErrInvalidTransition)

	require.NoError(t, h.ws.SubmitTopic("Biology"))
	_, err = h.ws.BeginExtraction()
	assert.ErrorIs(t, err, navigation.ErrInvalidTransition)
}
