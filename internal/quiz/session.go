// Package quiz implements the state machine for one quiz session: loading the
// generated questions, recording answers, moving between questions and
// running the optional countdown.
//
// A Session is not safe for concurrent use. Callers serialize events (user
// actions, timer ticks, fetch completions) the way workspace.Workspace does.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

type State int

const (
	StateLoading State = iota
	StateAnswering
	StateFinished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnswering:
		return "answering"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidState  = errors.New("operation not allowed in current session state")
	ErrUnknownOption = errors.New("option is not one of the current question's choices")
)

// Progress summarizes the position in the question set.
type Progress struct {
	Index    int `json:"index"`
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Percent  int `json:"percent"`
}

type Session struct {
	topic     string
	context   string
	settings  models.Settings
	state     State
	questions []models.Question
	current   int
	answers   map[int]string
	remaining int
	failure   error

	finishedAt time.Time
	now        func() time.Time
}

// NewSession creates a session in the Loading state. The caller issues the
// single quiz request described by Request and reports back via Load or Fail.
func NewSession(topic, context string, settings models.Settings) *Session {
	return &Session{
		topic:    topic,
		context:  context,
		settings: settings,
		state:    StateLoading,
		answers:  map[int]string{},
		now:      time.Now,
	}
}

func (s *Session) Topic() string             { return s.topic }
func (s *Session) Context() string           { return s.context }
func (s *Session) Settings() models.Settings { return s.settings }
func (s *Session) State() State              { return s.state }
func (s *Session) CurrentIndex() int         { return s.current }
func (s *Session) TimeRemaining() int        { return s.remaining }
func (s *Session) Total() int                { return len(s.questions) }

// Request describes the one quiz request this session needs.
func (s *Session) Request() models.QuizRequest {
	return models.QuizRequest{
		Topic:             s.topic,
		Context:           s.context,
		NumberOfQuestions: s.settings.NumberOfQuestions,
		Difficulty:        s.settings.Difficulty,
	}
}

// Failure returns the error that moved the session to Failed, if any.
func (s *Session) Failure() error { return s.failure }

// Load stores the generated questions and starts answering. An empty question
// set finishes the session immediately with zero total.
func (s *Session) Load(questions []models.Question) error {
	if s.state != StateLoading {
		return fmt.Errorf("load in %s: %w", s.state, ErrInvalidState)
	}
	s.questions = append([]models.Question(nil), questions...)
	s.current = 0
	if len(s.questions) == 0 {
		s.finish()
		return nil
	}
	s.state = StateAnswering
	s.resetTimer()
	return nil
}

// Fail records a terminal fetch failure. There is no automatic retry.
func (s *Session) Fail(err error) error {
	if s.state != StateLoading {
		return fmt.Errorf("fail in %s: %w", s.state, ErrInvalidState)
	}
	s.state = StateFailed
	s.failure = err
	return nil
}

// Current returns the question at the current index.
func (s *Session) Current() (models.Question, bool) {
	if s.state != StateAnswering && s.state != StateFinished {
		return models.Question{}, false
	}
	if s.current < 0 || s.current >= len(s.questions) {
		return models.Question{}, false
	}
	return s.questions[s.current], true
}

// SelectedAnswer returns the recorded answer for the current question.
func (s *Session) SelectedAnswer() (string, bool) {
	a, ok := s.answers[s.current]
	return a, ok
}

// SelectAnswer records option for the current question, replacing any earlier
// choice. Selecting the same option again leaves the session unchanged.
func (s *Session) SelectAnswer(option string) error {
	if s.state != StateAnswering {
		return fmt.Errorf("select answer in %s: %w", s.state, ErrInvalidState)
	}
	if !s.questions[s.current].HasOption(option) {
		return ErrUnknownOption
	}
	s.answers[s.current] = option
	return nil
}

// CanAdvance reports whether the current question has an answer. This is the
// guard for the user-facing Next control; Advance itself does not enforce it
// so that a timeout can move on from an unanswered question.
func (s *Session) CanAdvance() bool {
	if s.state != StateAnswering {
		return false
	}
	_, ok := s.answers[s.current]
	return ok
}

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	return s.current == len(s.questions)-1
}

// Advance moves to the next question, or finishes on the last one.
func (s *Session) Advance() error {
	if s.state != StateAnswering {
		return fmt.Errorf("advance in %s: %w", s.state, ErrInvalidState)
	}
	if s.current < len(s.questions)-1 {
		s.current++
		s.resetPerQuestionTimer()
		return nil
	}
	s.finish()
	return nil
}

// Retreat moves to the previous question. It is a no-op on the first question.
func (s *Session) Retreat() error {
	if s.state != StateAnswering {
		return fmt.Errorf("retreat in %s: %w", s.state, ErrInvalidState)
	}
	if s.current == 0 {
		return nil
	}
	s.current--
	s.resetPerQuestionTimer()
	return nil
}

// Finish ends the session early or on time. Unanswered questions stay
// unanswered.
func (s *Session) Finish() error {
	switch s.state {
	case StateAnswering:
		s.finish()
		return nil
	case StateFinished:
		return nil
	default:
		return fmt.Errorf("finish in %s: %w", s.state, ErrInvalidState)
	}
}

// TimerRunning reports whether ticks currently have an effect.
func (s *Session) TimerRunning() bool {
	return s.state == StateAnswering && s.settings.TimerEnabled() && s.remaining > 0
}

// Tick applies one elapsed second. When the countdown reaches zero a
// per-question timer advances (and restarts), a total timer finishes the
// session. It reports whether the tick was applied.
func (s *Session) Tick() bool {
	if !s.TimerRunning() {
		return false
	}
	s.remaining--
	if s.remaining > 0 {
		return true
	}
	switch s.settings.Timer.(type) {
	case models.PerQuestion:
		_ = s.Advance()
	case models.Total:
		s.finish()
	}
	return true
}

// Answers returns a copy of the recorded answers keyed by question index.
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Questions returns a copy of the loaded question set.
func (s *Session) Questions() []models.Question {
	return append([]models.Question(nil), s.questions...)
}

func (s *Session) Progress() Progress {
	p := Progress{Index: s.current, Total: len(s.questions), Answered: len(s.answers)}
	if p.Total > 0 {
		p.Percent = (s.current + 1) * 100 / p.Total
	}
	return p
}

// Outcome returns the frozen results payload. Only valid once Finished.
func (s *Session) Outcome() (models.Outcome, error) {
	if s.state != StateFinished {
		return models.Outcome{}, fmt.Errorf("outcome in %s: %w", s.state, ErrInvalidState)
	}
	return models.Outcome{
		Topic:             s.topic,
		Questions:         s.Questions(),
		Answers:           s.Answers(),
		Settings:          s.settings,
		TotalQuestions:    len(s.questions),
		AnsweredQuestions: len(s.answers),
		FinishedAt:        s.finishedAt,
	}, nil
}

func (s *Session) finish() {
	s.state = StateFinished
	s.finishedAt = s.now()
}

func (s *Session) resetTimer() {
	s.remaining = s.settings.TimeLimitSeconds()
}

func (s *Session) resetPerQuestionTimer() {
	if s.settings.TimerMode() == models.TimerPerQuestion {
		s.resetTimer()
	}
}
