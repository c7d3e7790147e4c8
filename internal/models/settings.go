package models

import (
	"encoding/json"
	"fmt"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type TimerMode string

const (
	TimerPerQuestion TimerMode = "perQuestion"
	TimerTotal       TimerMode = "total"
)

// Timer is either PerQuestion or Total. A nil Timer means the quiz is untimed.
type Timer interface {
	Mode() TimerMode
	LimitSeconds() int
	isTimer()
}

// PerQuestion restarts the countdown on every question.
type PerQuestion struct {
	Limit int
}

func (PerQuestion) Mode() TimerMode     { return TimerPerQuestion }
func (t PerQuestion) LimitSeconds() int { return t.Limit }
func (PerQuestion) isTimer()            {}

// Total counts down once for the whole quiz.
type Total struct {
	Limit int
}

func (Total) Mode() TimerMode     { return TimerTotal }
func (t Total) LimitSeconds() int { return t.Limit }
func (Total) isTimer()            {}

// Settings is the quiz configuration chosen on the settings screen.
// It is a value type; edits go through the settings package and return copies.
type Settings struct {
	NumberOfQuestions int
	Difficulty        Difficulty
	Timer             Timer
}

func (s Settings) TimerEnabled() bool {
	return s.Timer != nil
}

// TimerMode returns "" for untimed quizzes.
func (s Settings) TimerMode() TimerMode {
	if s.Timer == nil {
		return ""
	}
	return s.Timer.Mode()
}

// TimeLimitSeconds returns 0 for untimed quizzes.
func (s Settings) TimeLimitSeconds() int {
	if s.Timer == nil {
		return 0
	}
	return s.Timer.LimitSeconds()
}

// TimerLabel is the short human summary shown next to the start button.
func (s Settings) TimerLabel() string {
	switch t := s.Timer.(type) {
	case PerQuestion:
		return fmt.Sprintf("%ds per question", t.Limit)
	case Total:
		return fmt.Sprintf("%ds total", t.Limit)
	default:
		return "Disabled"
	}
}

type settingsJSON struct {
	NumberOfQuestions int        `json:"numberOfQuestions"`
	Difficulty        Difficulty `json:"difficulty"`
	TimerEnabled      bool       `json:"timerEnabled"`
	TimerMode         TimerMode  `json:"timerMode,omitempty"`
	TimeLimitSeconds  int        `json:"timeLimitSeconds,omitempty"`
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(settingsJSON{
		NumberOfQuestions: s.NumberOfQuestions,
		Difficulty:        s.Difficulty,
		TimerEnabled:      s.TimerEnabled(),
		TimerMode:         s.TimerMode(),
		TimeLimitSeconds:  s.TimeLimitSeconds(),
	})
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw settingsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Settings{NumberOfQuestions: raw.NumberOfQuestions, Difficulty: raw.Difficulty}
	if !raw.TimerEnabled {
		return nil
	}
	switch raw.TimerMode {
	case TimerPerQuestion:
		s.Timer = PerQuestion{Limit: raw.TimeLimitSeconds}
	case TimerTotal:
		s.Timer = Total{Limit: raw.TimeLimitSeconds}
	default:
		return fmt.Errorf("unknown timer mode %q", raw.TimerMode)
	}
	return nil
}
