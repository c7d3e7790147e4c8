package quiz_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/settings"
)

func question(prompt, answer string) models.Question {
	return models.Question{
		Prompt:        prompt,
		Options:       []string{"A", "B", "C", "D"},
		CorrectOption: answer,
		Explanation:   "because",
	}
}

func questions(n int) []models.Question {
	out := make([]models.Question, n)
	for i := range out {
		out[i] = question("Q", "B")
	}
	return out
}

func answering(t *testing.T, s models.Settings, n int) *quiz.Session {
	t.Helper()
	sess := quiz.NewSession("Biology", "", s)
	require.NoError(t, sess.Load(questions(n)))
	require.Equal(t, quiz.StateAnswering, sess.State())
	return sess
}

func TestNewSessionStartsLoading(t *testing.T) {
	sess := quiz.NewSession("Biology", "cells", settings.Default())

	assert.Equal(t, quiz.StateLoading, sess.State())
	assert.Equal(t, "Biology", sess.Topic())
	assert.Equal(t, models.QuizRequest{
		Topic:             "Biology",
		Context:           "cells",
		NumberOfQuestions: 10,
		Difficulty:        models.DifficultyMedium,
	}, sess.Request())

	_, ok := sess.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, sess.SelectAnswer("A"), quiz.ErrInvalidState)
	assert.False(t, sess.Tick())
}

func TestLoadEmptyQuestionSetFinishes(t *testing.T) {
	sess := quiz.NewSession("Biology", "", settings.Default())
	require.NoError(t, sess.Load(nil))

	assert.Equal(t, quiz.StateFinished, sess.State())
	out, err := sess.Outcome()
	require.NoError(t, err)
	assert.Equal(t, 0, out.TotalQuestions)
	assert.Equal(t, 0, out.AnsweredQuestions)
}

func TestLoadTwiceRejected(t *testing.T) {
	sess := answering(t, settings.Default(), 2)
	assert.ErrorIs(t, sess.Load(questions(2)), quiz.ErrInvalidState)
}

func TestFail(t *testing.T) {
	sess := quiz.NewSession("Biology", "", settings.Default())
	cause := stderrors.New("connection refused")
	require.NoError(t, sess.Fail(cause))

	assert.Equal(t, quiz.StateFailed, sess.State())
	assert.Equal(t, cause, sess.Failure())
	assert.ErrorIs(t, sess.Load(questions(1)), quiz.ErrInvalidState)
	assert.ErrorIs(t, sess.Finish(), quiz.ErrInvalidState)
	_, err := sess.Outcome()
	assert.ErrorIs(t, err, quiz.ErrInvalidState)
}

func TestSelectAnswerIsIdempotent(t *testing.T) {
	sess := answering(t, settings.Default(), 3)

	require.NoError(t, sess.SelectAnswer("C"))
	first := sess.Answers()
	require.NoError(t, sess.SelectAnswer("C"))

	assert.Equal(t, first, sess.Answers())
	assert.Equal(t, 0, sess.CurrentIndex())
}

func TestSelectAnswerReplacesEarlierChoice(t *testing.T) {
	sess := answering(t, settings.Default(), 3)

	require.NoError(t, sess.SelectAnswer("A"))
	require.NoError(t, sess.SelectAnswer("D"))

	got, ok := sess.SelectedAnswer()
	assert.True(t, ok)
	assert.Equal(t, "D", got)
	assert.Len(t, sess.Answers(), 1)
}

func TestSelectAnswerRejectsUnknownOption(t *testing.T) {
	sess := answering(t, settings.Default(), 1)

	assert.ErrorIs(t, sess.SelectAnswer("E"), quiz.ErrUnknownOption)
	assert.Empty(t, sess.Answers())
}

func TestCanAdvanceRequiresAnswer(t *testing.T) {
	sess := answering(t, settings.Default(), 2)

	assert.False(t, sess.CanAdvance())
	require.NoError(t, sess.SelectAnswer("B"))
	assert.True(t, sess.CanAdvance())
}

func TestAdvanceNeverPassesLastQuestion(t *testing.T) {
	sess := answering(t, settings.Default(), 3)

	for i := 0; i < 2; i++ {
		require.NoError(t, sess.Advance())
		assert.Equal(t, i+1, sess.CurrentIndex())
	}
	assert.True(t, sess.IsLast())

	require.NoError(t, sess.Advance())
	assert.Equal(t, quiz.StateFinished, sess.State())
	assert.Equal(t, 2, sess.CurrentIndex())
	assert.ErrorIs(t, sess.Advance(), quiz.ErrInvalidState)
}

func TestRetreatAtFirstQuestionIsNoop(t *testing.T) {
	sess := answering(t, settings.Default(), 3)

	require.NoError(t, sess.Retreat())
	assert.Equal(t, 0, sess.CurrentIndex())

	require.NoError(t, sess.Advance())
	require.NoError(t, sess.Retreat())
	assert.Equal(t, 0, sess.CurrentIndex())
}

func TestAnswersSurviveNavigation(t *testing.T) {
	sess := answering(t, settings.Default(), 3)

	require.NoError(t, sess.SelectAnswer("A"))
	require.NoError(t, sess.Advance())
	require.NoError(t, sess.SelectAnswer("C"))
	require.NoError(t, sess.Retreat())

	got, ok := sess.SelectedAnswer()
	require.True(t, ok)
	assert.Equal(t, "A", got)
	assert.Equal(t, map[int]string{0: "A", 1: "C"}, sess.Answers())
}

func TestFinishEarlyKeepsUnanswered(t *testing.T) {
	sess := answering(t, settings.Default(), 4)
	require.NoError(t, sess.SelectAnswer("B"))

	require.NoError(t, sess.Finish())
	require.NoError(t, sess.Finish(), "finish is idempotent")

	out, err := sess.Outcome()
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalQuestions)
	assert.Equal(t, 1, out.AnsweredQuestions)
	assert.Equal(t, "Biology", out.Topic)
	assert.False(t, out.FinishedAt.IsZero())
}

func TestAnsweredNeverExceedsTotal(t *testing.T) {
	sess := answering(t, settings.Default(), 2)

	for i := 0; i < 2; i++ {
		require.NoError(t, sess.SelectAnswer("A"))
		require.NoError(t, sess.SelectAnswer("B"))
		require.NoError(t, sess.Advance())
	}

	p := sess.Progress()
	assert.LessOrEqual(t, p.Answered, p.Total)
	assert.Equal(t, 2, p.Answered)
}

func TestPerQuestionTimeoutAdvancesOnce(t *testing.T) {
	s := settings.WithTimerEnabled(settings.Default(), true)
	sess := answering(t, s, 3)
	assert.Equal(t, 30, sess.TimeRemaining())

	for i := 0; i < 29; i++ {
		require.True(t, sess.Tick())
	}
	assert.Equal(t, 0, sess.CurrentIndex())
	assert.Equal(t, 1, sess.TimeRemaining())

	require.True(t, sess.Tick())
	assert.Equal(t, 1, sess.CurrentIndex())
	assert.Equal(t, 30, sess.TimeRemaining())
	assert.Equal(t, quiz.StateAnswering, sess.State())
	assert.Empty(t, sess.Answers(), "timeout does not record an answer")
}

func TestPerQuestionTimeoutOnLastQuestionFinishes(t *testing.T) {
	s := settings.WithTimerEnabled(settings.Default(), true)
	s, err := settings.WithTimeLimit(s, 15)
	require.NoError(t, err)
	sess := answering(t, s, 1)

	for i := 0; i < 15; i++ {
		sess.Tick()
	}

	assert.Equal(t, quiz.StateFinished, sess.State())
	assert.False(t, sess.Tick())
}

func TestNavigationResetsPerQuestionTimer(t *testing.T) {
	s := settings.WithTimerEnabled(settings.Default(), true)
	sess := answering(t, s, 3)

	sess.Tick()
	sess.Tick()
	require.NoError(t, sess.Advance())
	assert.Equal(t, 30, sess.TimeRemaining())

	sess.Tick()
	require.NoError(t, sess.Retreat())
	assert.Equal(t, 30, sess.TimeRemaining())
}

func TestTotalTimeoutFinishes(t *testing.T) {
	s := settings.WithTimerEnabled(settings.Default(), true)
	s, err := settings.WithTimerMode(s, models.TimerTotal)
	require.NoError(t, err)
	// Bypass the choice list to keep the countdown short.
	s.Timer = models.Total{Limit: 5}
	sess := answering(t, s, 3)

	for i := 0; i < 5; i++ {
		require.True(t, sess.Tick())
	}

	assert.Equal(t, quiz.StateFinished, sess.State())
	out, err := sess.Outcome()
	require.NoError(t, err)
	assert.Equal(t, 0, out.AnsweredQuestions)
	assert.Equal(t, 3, out.TotalQuestions)
}

func TestTotalTimerSurvivesNavigation(t *testing.T) {
	s := settings.WithTimerEnabled(settings.Default(), true)
	s, err := settings.WithTimerMode(s, models.TimerTotal)
	require.NoError(t, err)
	sess := answering(t, s, 3)

	sess.Tick()
	require.NoError(t, sess.Advance())
	require.NoError(t, sess.Retreat())

	assert.Equal(t, 299, sess.TimeRemaining())
}

func TestTickWithoutTimerIsIgnored(t *testing.T) {
	sess := answering(t, settings.Default(), 2)

	assert.False(t, sess.TimerRunning())
	assert.False(t, sess.Tick())
	assert.Equal(t, 0, sess.CurrentIndex())
}

func TestProgress(t *testing.T) {
	sess := answering(t, settings.Default(), 4)
	require.NoError(t, sess.SelectAnswer("A"))
	require.NoError(t, sess.Advance())

	assert.Equal(t, quiz.Progress{Index: 1, Total: 4, Answered: 1, Percent: 50}, sess.Progress())
}

func TestQuestionsReturnsCopy(t *testing.T) {
	sess := answering(t, settings.Default(), 2)

	qs := sess.Questions()
	qs[0].Prompt = "changed"

	cur, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, "Q", cur.Prompt)
}
