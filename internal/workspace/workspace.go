// Package workspace holds one user's running instance of the app: the screen
// they are on, the active quiz session, in-flight remote requests and the
// countdown driver.
//
// Every event (user action, timer tick, remote completion) takes the workspace
// lock and runs to completion, so no two mutations ever interleave.
package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	apperrors "github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/navigation"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizapi"
)

const (
	maxTopicRunes  = 120
	genericFailure = "Something went wrong. Please try again."
)

var (
	ErrRequestInFlight = errors.New("a request is already in progress")
	ErrAnswerRequired  = errors.New("select an answer before moving on")
	ErrClosed          = errors.New("workspace is closed")
)

// LoadRequest is a quiz fetch the caller must run and report back through
// CompleteLoad with the same Token. Ctx is cancelled when the user leaves.
type LoadRequest struct {
	Token   uint64
	Ctx     context.Context
	Request models.QuizRequest
}

// ExtractRequest is an OCR call to report back through CompleteExtraction.
type ExtractRequest struct {
	Token uint64
	Ctx   context.Context
}

type Option func(*Workspace)

func WithTickerFactory(f TickerFactory) Option {
	return func(w *Workspace) { w.newTicker = f }
}

func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithNotify registers a callback run after every asynchronous change (tick or
// remote completion). It is called without the lock held.
func WithNotify(fn func()) Option {
	return func(w *Workspace) { w.notify = fn }
}

type Workspace struct {
	id  string
	log *logger.Logger

	mu  sync.Mutex
	nav *navigation.Controller

	draft   string
	context string
	notice  string

	nextToken  uint64
	ocrToken   uint64
	ocrCancel  context.CancelFunc
	loadToken  uint64
	loadCancel context.CancelFunc

	timer     *timerDriver
	newTicker TickerFactory
	notify    func()

	now        func() time.Time
	lastActive time.Time
	closed     bool
}

func New(id string, opts ...Option) *Workspace {
	w := &Workspace{
		id:        id,
		nav:       navigation.NewController(),
		newTicker: NewRealTicker,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logger.Default().WithPrefix("workspace").WithField("workspace", id)
	w.lastActive = w.now()
	return w
}

func (w *Workspace) ID() string { return w.id }

// LastActive is the time of the last user action.
func (w *Workspace) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// Stage returns the screen currently shown.
func (w *Workspace) Stage() navigation.Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nav.Stage()
}

// do runs a user action under the lock.
func (w *Workspace) do(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.lastActive = w.now()
	w.notice = ""
	return fn()
}

// async runs a tick or completion under the lock and notifies afterwards.
func (w *Workspace) async(fn func() bool) {
	w.mu.Lock()
	changed := !w.closed && fn()
	w.mu.Unlock()
	if changed && w.notify != nil {
		w.notify()
	}
}

// SubmitTopic moves from topic entry to settings. Text from an earlier image
// extraction travels along as context; a pending extraction is abandoned.
func (w *Workspace) SubmitTopic(topic string) error {
	return w.do(func() error {
		if err := w.nav.SubmitTopic(topic, w.context); err != nil {
			w.draft = topic
			return err
		}
		w.clearExtraction()
		w.draft = strings.TrimSpace(topic)
		return nil
	})
}

func (w *Workspace) BackToTopic() error {
	return w.do(func() error {
		p, ok := w.nav.Settings()
		if err := w.nav.BackToTopic(); err != nil {
			return err
		}
		if ok {
			w.draft = p.Topic
		}
		return nil
	})
}

// BeginExtraction reserves the single OCR slot of the topic screen.
func (w *Workspace) BeginExtraction() (ExtractRequest, error) {
	var req ExtractRequest
	err := w.do(func() error {
		if w.nav.Stage() != navigation.StageTopicEntry {
			return navigation.ErrInvalidTransition
		}
		if w.ocrToken != 0 {
			return ErrRequestInFlight
		}
		w.nextToken++
		w.ocrToken = w.nextToken
		ctx, cancel := context.WithCancel(context.Background())
		w.ocrCancel = cancel
		req = ExtractRequest{Token: w.ocrToken, Ctx: ctx}
		w.log.Debug("extraction %d started", req.Token)
		return nil
	})
	return req, err
}

// CompleteExtraction applies OCR output. The first line becomes the topic and
// the full text is kept as context. Stale tokens are ignored.
func (w *Workspace) CompleteExtraction(token uint64, text string, err error) {
	w.async(func() bool {
		if token == 0 || token != w.ocrToken {
			w.log.Debug("dropping stale extraction %d", token)
			return false
		}
		w.clearExtraction()
		if err != nil {
			w.log.Warn("extraction failed: %v", err)
			w.notice = userMessage(err)
			return true
		}
		topic := quizapi.TopicFromText(text, maxTopicRunes)
		if topic == "" {
			w.notice = "No text found in the image."
			return true
		}
		w.draft = topic
		w.context = strings.TrimSpace(text)
		return true
	})
}

// StartQuiz creates a Loading session for s and returns the fetch to run.
func (w *Workspace) StartQuiz(s models.Settings) (LoadRequest, error) {
	var req LoadRequest
	err := w.do(func() error {
		sess, err := w.nav.StartQuiz(s)
		if err != nil {
			return err
		}
		req = w.beginLoad(sess)
		return nil
	})
	return req, err
}

// Retry replaces a failed session with a new Loading one.
func (w *Workspace) Retry() (LoadRequest, error) {
	var req LoadRequest
	err := w.do(func() error {
		sess, err := w.nav.Retry()
		if err != nil {
			return err
		}
		req = w.beginLoad(sess)
		return nil
	})
	return req, err
}

// CompleteLoad applies the result of the quiz fetch identified by token.
// Responses for a session the user already left are dropped.
func (w *Workspace) CompleteLoad(token uint64, questions []models.Question, err error) {
	w.async(func() bool {
		if token == 0 || token != w.loadToken {
			w.log.Debug("dropping stale quiz response %d", token)
			return false
		}
		sess := w.session()
		w.clearLoad()
		if sess == nil || sess.State() != quiz.StateLoading {
			return false
		}
		if err != nil {
			w.log.Warn("quiz fetch failed: %v", err)
			_ = sess.Fail(err)
			return true
		}
		_ = sess.Load(questions)
		w.log.Info("loaded %d questions", len(questions))
		w.settle(true)
		return true
	})
}

// FailLoad is CompleteLoad for a fetch that could not be started.
func (w *Workspace) FailLoad(token uint64, err error) {
	w.CompleteLoad(token, nil, err)
}

func (w *Workspace) SelectAnswer(option string) error {
	return w.withSession(func(s *quiz.Session) error {
		return s.SelectAnswer(option)
	})
}

// Next is the user-facing advance and requires an answer to the current
// question.
func (w *Workspace) Next() error {
	return w.withSession(func(s *quiz.Session) error {
		if s.State() == quiz.StateAnswering && !s.CanAdvance() {
			return ErrAnswerRequired
		}
		if err := s.Advance(); err != nil {
			return err
		}
		w.settle(true)
		return nil
	})
}

func (w *Workspace) Previous() error {
	return w.withSession(func(s *quiz.Session) error {
		idx := s.CurrentIndex()
		if err := s.Retreat(); err != nil {
			return err
		}
		w.settle(idx != s.CurrentIndex())
		return nil
	})
}

func (w *Workspace) Finish() error {
	return w.withSession(func(s *quiz.Session) error {
		if err := s.Finish(); err != nil {
			return err
		}
		w.settle(false)
		return nil
	})
}

// BackToSettings leaves the quiz, discarding its answers.
func (w *Workspace) BackToSettings() error {
	return w.toSettings(navigation.StageQuiz)
}

// Retake goes from the results back to settings with the same topic.
func (w *Workspace) Retake() error {
	return w.toSettings(navigation.StageResults)
}

func (w *Workspace) toSettings(from navigation.Stage) error {
	return w.do(func() error {
		if w.nav.Stage() != from {
			return navigation.ErrInvalidTransition
		}
		if err := w.nav.BackToSettings(); err != nil {
			return err
		}
		w.clearLoad()
		w.stopTimer()
		return nil
	})
}

// Home abandons a failed quiz.
func (w *Workspace) Home() error {
	return w.do(func() error {
		if err := w.nav.GoHome(); err != nil {
			return err
		}
		w.resetTopic()
		return nil
	})
}

func (w *Workspace) NewTopic() error {
	return w.do(func() error {
		if err := w.nav.NewTopic(); err != nil {
			return err
		}
		w.resetTopic()
		return nil
	})
}

// SetNotice shows msg on the current screen until the next user action.
func (w *Workspace) SetNotice(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = msg
}

// Close cancels outstanding requests and stops the timer. Later events are
// ignored.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.clearExtraction()
	w.clearLoad()
	w.stopTimer()
	w.log.Debug("workspace closed")
}

func (w *Workspace) withSession(fn func(*quiz.Session) error) error {
	return w.do(func() error {
		s := w.session()
		if s == nil {
			return navigation.ErrInvalidTransition
		}
		return fn(s)
	})
}

func (w *Workspace) session() *quiz.Session {
	p, ok := w.nav.Quiz()
	if !ok {
		return nil
	}
	return p.Session
}

func (w *Workspace) beginLoad(sess *quiz.Session) LoadRequest {
	w.clearLoad()
	w.nextToken++
	w.loadToken = w.nextToken
	ctx, cancel := context.WithCancel(context.Background())
	w.loadCancel = cancel
	w.log.Debug("quiz request %d for %q", w.loadToken, sess.Topic())
	return LoadRequest{Token: w.loadToken, Ctx: ctx, Request: sess.Request()}
}

// settle keeps the timer driver and the screen in line with the session
// state. restart re-phases the countdown after the question changed.
func (w *Workspace) settle(restart bool) {
	s := w.session()
	if s == nil {
		w.stopTimer()
		return
	}
	switch {
	case s.State() == quiz.StateFinished:
		w.stopTimer()
		if _, err := w.nav.CompleteQuiz(); err != nil {
			w.log.Error("could not show results: %v", err)
		}
	case s.TimerRunning():
		if restart && s.Settings().TimerMode() == models.TimerPerQuestion {
			w.stopTimer()
		}
		if w.timer == nil {
			w.timer = startTimer(w.newTicker, w.tick)
		}
	default:
		w.stopTimer()
	}
}

func (w *Workspace) tick(d *timerDriver) {
	w.async(func() bool {
		if w.timer != d {
			return false
		}
		s := w.session()
		if s == nil {
			w.stopTimer()
			return false
		}
		idx := s.CurrentIndex()
		if !s.Tick() {
			w.stopTimer()
			return false
		}
		w.settle(idx != s.CurrentIndex())
		return true
	})
}

func (w *Workspace) stopTimer() {
	if w.timer != nil {
		w.timer.stop()
		w.timer = nil
	}
}

func (w *Workspace) clearLoad() {
	if w.loadCancel != nil {
		w.loadCancel()
		w.loadCancel = nil
	}
	w.loadToken = 0
}

func (w *Workspace) clearExtraction() {
	if w.ocrCancel != nil {
		w.ocrCancel()
		w.ocrCancel = nil
	}
	w.ocrToken = 0
}

func (w *Workspace) resetTopic() {
	w.clearLoad()
	w.clearExtraction()
	w.stopTimer()
	w.draft = ""
	w.context = ""
}

// userMessage is the text shown for a failed remote call.
func userMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Code {
		case apperrors.ErrCodeNetworkFailure:
			return "Could not reach the quiz service. Please try again."
		case apperrors.ErrCodeMalformedResponse:
			return "The quiz service sent an unexpected response. Please try again."
		case apperrors.ErrCodeInternal:
			return genericFailure
		}
		return appErr.Message
	}
	return genericFailure
}
