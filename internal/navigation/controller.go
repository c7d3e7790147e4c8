// Package navigation sequences the four screens of the app and carries the
// payload each screen needs from one stage to the next.
package navigation

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/settings"
)

type Stage int

const (
	StageTopicEntry Stage = iota
	StageSettings
	StageQuiz
	StageResults
)

func (s Stage) String() string {
	switch s {
	case StageTopicEntry:
		return "topic"
	case StageSettings:
		return "settings"
	case StageQuiz:
		return "quiz"
	case StageResults:
		return "results"
	default:
		return "unknown"
	}
}

var ErrInvalidTransition = errors.New("navigation transition not allowed from current stage")

// SettingsPayload is handed to the settings screen.
type SettingsPayload struct {
	Topic   string
	Context string
}

// QuizPayload is handed to the quiz screen. Session is owned by the
// controller until CompleteQuiz, BackToSettings or GoHome drops it.
type QuizPayload struct {
	Topic    string
	Context  string
	Settings models.Settings
	Session  *quiz.Session
}

// ResultsPayload is handed to the results screen.
type ResultsPayload struct {
	Outcome models.Outcome
	Context string
}

type Controller struct {
	stage    Stage
	settings *SettingsPayload
	quiz     *QuizPayload
	results  *ResultsPayload

	// last settings the user started a quiz with; prefilled on the settings screen
	lastSettings models.Settings
}

func NewController() *Controller {
	return &Controller{stage: StageTopicEntry, lastSettings: settings.Default()}
}

func (c *Controller) Stage() Stage { return c.stage }

// LastSettings returns the settings to prefill on the settings screen.
func (c *Controller) LastSettings() models.Settings { return c.lastSettings }

func (c *Controller) Settings() (SettingsPayload, bool) {
	if c.stage != StageSettings {
		return SettingsPayload{}, false
	}
	return *c.settings, true
}

func (c *Controller) Quiz() (QuizPayload, bool) {
	if c.stage != StageQuiz {
		return QuizPayload{}, false
	}
	return *c.quiz, true
}

func (c *Controller) Results() (ResultsPayload, bool) {
	if c.stage != StageResults {
		return ResultsPayload{}, false
	}
	return *c.results, true
}

// SubmitTopic moves from topic entry to settings. The topic is trimmed and must
// not be empty. context carries OCR text when the topic came from an image.
func (c *Controller) SubmitTopic(topic, context string) error {
	if err := c.expect("submit topic", StageTopicEntry); err != nil {
		return err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return apperrors.NewEmptyTopicError()
	}
	c.settings = &SettingsPayload{Topic: topic, Context: context}
	c.stage = StageSettings
	return nil
}

func (c *Controller) BackToTopic() error {
	if err := c.expect("back to topic", StageSettings); err != nil {
		return err
	}
	c.reset()
	return nil
}

// StartQuiz validates s and creates a Loading session for it.
func (c *Controller) StartQuiz(s models.Settings) (*quiz.Session, error) {
	if err := c.expect("start quiz", StageSettings); err != nil {
		return nil, err
	}
	if err := settings.Validate(s); err != nil {
		return nil, err
	}
	p := c.settings
	sess := quiz.NewSession(p.Topic, p.Context, s)
	c.quiz = &QuizPayload{Topic: p.Topic, Context: p.Context, Settings: s, Session: sess}
	c.settings = nil
	c.lastSettings = s
	c.stage = StageQuiz
	return sess, nil
}

// BackToSettings leaves a quiz (discarding its answers) or retakes a finished
// one with the same topic.
func (c *Controller) BackToSettings() error {
	switch c.stage {
	case StageQuiz:
		c.settings = &SettingsPayload{Topic: c.quiz.Topic, Context: c.quiz.Context}
	case StageResults:
		c.settings = &SettingsPayload{Topic: c.results.Outcome.Topic, Context: c.results.Context}
	default:
		return c.invalid("back to settings")
	}
	c.quiz = nil
	c.results = nil
	c.stage = StageSettings
	return nil
}

// CompleteQuiz hands a finished session's outcome to the results screen and
// drops the session.
func (c *Controller) CompleteQuiz() (models.Outcome, error) {
	if err := c.expect("complete quiz", StageQuiz); err != nil {
		return models.Outcome{}, err
	}
	out, err := c.quiz.Session.Outcome()
	if err != nil {
		return models.Outcome{}, fmt.Errorf("complete quiz: %w", err)
	}
	c.results = &ResultsPayload{Outcome: out, Context: c.quiz.Context}
	c.quiz = nil
	c.stage = StageResults
	return out, nil
}

func (c *Controller) NewTopic() error {
	if err := c.expect("new topic", StageResults); err != nil {
		return err
	}
	c.reset()
	return nil
}

// GoHome abandons a failed quiz and returns to topic entry.
func (c *Controller) GoHome() error {
	if err := c.expectFailed("go home"); err != nil {
		return err
	}
	c.reset()
	return nil
}

// Retry replaces a failed session with a fresh Loading one for the same topic
// and settings.
func (c *Controller) Retry() (*quiz.Session, error) {
	if err := c.expectFailed("retry"); err != nil {
		return nil, err
	}
	p := c.quiz
	p.Session = quiz.NewSession(p.Topic, p.Context, p.Settings)
	return p.Session, nil
}

func (c *Controller) reset() {
	c.settings = nil
	c.quiz = nil
	c.results = nil
	c.stage = StageTopicEntry
}

func (c *Controller) expect(op string, stage Stage) error {
	if c.stage != stage {
		return c.invalid(op)
	}
	return nil
}

func (c *Controller) expectFailed(op string) error {
	if c.stage != StageQuiz || c.quiz.Session.State() != quiz.StateFailed {
		return c.invalid(op)
	}
	return nil
}

func (c *Controller) invalid(op string) error {
	return fmt.Errorf("%s from %s: %w", op, c.stage, ErrInvalidTransition)
}
