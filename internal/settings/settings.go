// Package settings holds the quiz configuration choices and the immutable
// edit operations used by the settings screen.
package settings

import (
	"fmt"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
)

const (
	DefaultQuestionCount    = 10
	DefaultDifficulty       = models.DifficultyMedium
	DefaultPerQuestionLimit = 30
	DefaultTotalLimit       = 300
)

var (
	QuestionCounts    = []int{5, 10, 15, 20}
	Difficulties      = []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	TimerModes        = []models.TimerMode{models.TimerPerQuestion, models.TimerTotal}
	PerQuestionLimits = []int{15, 30, 45, 60}
	TotalLimits       = []int{300, 600, 900, 1200}
)

// Default returns the settings the screen opens with: 10 medium questions, no timer.
func Default() models.Settings {
	return models.Settings{
		NumberOfQuestions: DefaultQuestionCount,
		Difficulty:        DefaultDifficulty,
	}
}

// LimitChoices lists the legal time limits for mode, in seconds.
func LimitChoices(mode models.TimerMode) []int {
	switch mode {
	case models.TimerPerQuestion:
		return PerQuestionLimits
	case models.TimerTotal:
		return TotalLimits
	default:
		return nil
	}
}

func defaultLimit(mode models.TimerMode) int {
	if mode == models.TimerTotal {
		return DefaultTotalLimit
	}
	return DefaultPerQuestionLimit
}

func newTimer(mode models.TimerMode, limit int) models.Timer {
	if mode == models.TimerTotal {
		return models.Total{Limit: limit}
	}
	return models.PerQuestion{Limit: limit}
}

// WithQuestionCount returns s with a new question count.
func WithQuestionCount(s models.Settings, n int) (models.Settings, error) {
	if !containsInt(QuestionCounts, n) {
		return s, errors.NewValidationError("numberOfQuestions", fmt.Sprintf("must be one of %v", QuestionCounts))
	}
	s.NumberOfQuestions = n
	return s, nil
}

// WithDifficulty returns s with a new difficulty.
func WithDifficulty(s models.Settings, d models.Difficulty) (models.Settings, error) {
	if !ValidDifficulty(d) {
		return s, errors.NewValidationError("difficulty", "must be easy, medium or hard")
	}
	s.Difficulty = d
	return s, nil
}

// WithTimerEnabled turns the timer on (per question, default limit) or off.
// Enabling an already enabled timer keeps its mode and limit.
func WithTimerEnabled(s models.Settings, enabled bool) models.Settings {
	switch {
	case !enabled:
		s.Timer = nil
	case s.Timer == nil:
		s.Timer = models.PerQuestion{Limit: DefaultPerQuestionLimit}
	}
	return s
}

// WithTimerMode switches between per-question and total countdowns. The current
// limit survives when it is a legal choice for the new mode.
func WithTimerMode(s models.Settings, mode models.TimerMode) (models.Settings, error) {
	if mode != models.TimerPerQuestion && mode != models.TimerTotal {
		return s, errors.NewValidationError("timerMode", "must be perQuestion or total")
	}
	if s.Timer == nil {
		return s, errors.NewValidationError("timerMode", "timer is disabled")
	}
	limit := s.Timer.LimitSeconds()
	if !containsInt(LimitChoices(mode), limit) {
		limit = defaultLimit(mode)
	}
	s.Timer = newTimer(mode, limit)
	return s, nil
}

// WithTimeLimit sets the countdown length for the current timer mode.
func WithTimeLimit(s models.Settings, seconds int) (models.Settings, error) {
	if s.Timer == nil {
		return s, errors.NewValidationError("timeLimitSeconds", "timer is disabled")
	}
	mode := s.Timer.Mode()
	if !containsInt(LimitChoices(mode), seconds) {
		return s, errors.NewValidationError("timeLimitSeconds", fmt.Sprintf("must be one of %v for %s", LimitChoices(mode), mode))
	}
	s.Timer = newTimer(mode, seconds)
	return s, nil
}

// Validate checks a complete settings value.
func Validate(s models.Settings) error {
	if !containsInt(QuestionCounts, s.NumberOfQuestions) {
		return errors.NewValidationError("numberOfQuestions", fmt.Sprintf("must be one of %v", QuestionCounts))
	}
	if !ValidDifficulty(s.Difficulty) {
		return errors.NewValidationError("difficulty", "must be easy, medium or hard")
	}
	if s.Timer != nil && !containsInt(LimitChoices(s.Timer.Mode()), s.Timer.LimitSeconds()) {
		return errors.NewValidationError("timeLimitSeconds", fmt.Sprintf("must be one of %v", LimitChoices(s.Timer.Mode())))
	}
	return nil
}

func ValidDifficulty(d models.Difficulty) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Choice is the raw input of the settings screen (HTML form or CLI prompts).
// Zero values mean "keep the default".
type Choice struct {
	NumberOfQuestions int
	Difficulty        string
	TimerEnabled      bool
	TimerMode         string
	TimeLimitSeconds  int
}

// FromChoice applies a Choice to the defaults one edit at a time.
func FromChoice(c Choice) (models.Settings, error) {
	s := Default()
	var err error

	if c.NumberOfQuestions != 0 {
		if s, err = WithQuestionCount(s, c.NumberOfQuestions); err != nil {
			return Default(), err
		}
	}
	if c.Difficulty != "" {
		if s, err = WithDifficulty(s, models.Difficulty(c.Difficulty)); err != nil {
			return Default(), err
		}
	}
	if !c.TimerEnabled {
		return s, nil
	}
	s = WithTimerEnabled(s, true)
	if c.TimerMode != "" {
		if s, err = WithTimerMode(s, models.TimerMode(c.TimerMode)); err != nil {
			return Default(), err
		}
	}
	if c.TimeLimitSeconds != 0 {
		if s, err = WithTimeLimit(s, c.TimeLimitSeconds); err != nil {
			return Default(), err
		}
	}
	return s, nil
}
