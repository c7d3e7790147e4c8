package workspace

import (
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/navigation"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/scoring"
)

// View is a read-only snapshot of a workspace for rendering.
type View struct {
	ID         string        `json:"id"`
	Stage      string        `json:"stage"`
	TopicDraft string        `json:"topicDraft,omitempty"`
	Context    string        `json:"context,omitempty"`
	Notice     string        `json:"notice,omitempty"`
	Extracting bool          `json:"extracting"`
	Settings   *SettingsView `json:"settings,omitempty"`
	Quiz       *QuizView     `json:"quiz,omitempty"`
	Results    *ResultsView  `json:"results,omitempty"`
}

type SettingsView struct {
	Topic      string          `json:"topic"`
	HasContext bool            `json:"hasContext"`
	Current    models.Settings `json:"current"`
}

type QuizView struct {
	Topic         string           `json:"topic"`
	Settings      models.Settings  `json:"settings"`
	State         string           `json:"state"`
	Question      *models.Question `json:"question,omitempty"`
	Selected      string           `json:"selected,omitempty"`
	Progress      quiz.Progress    `json:"progress"`
	TimeRemaining int              `json:"timeRemaining"`
	TimerRunning  bool             `json:"timerRunning"`
	CanAdvance    bool             `json:"canAdvance"`
	CanRetreat    bool             `json:"canRetreat"`
	IsLast        bool             `json:"isLast"`
	Error         string           `json:"error,omitempty"`
}

type ResultsView struct {
	Topic    string               `json:"topic"`
	Settings models.Settings      `json:"settings"`
	Result   models.Result        `json:"result"`
	Band     scoring.Band         `json:"band"`
	Message  string               `json:"message"`
	Review   []scoring.ReviewItem `json:"review"`
}

func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		ID:         w.id,
		Stage:      w.nav.Stage().String(),
		Notice:     w.notice,
		Extracting: w.ocrToken != 0,
	}

	switch w.nav.Stage() {
	case navigation.StageTopicEntry:
		v.TopicDraft = w.draft
		v.Context = w.context
	case navigation.StageSettings:
		p, _ := w.nav.Settings()
		v.Settings = &SettingsView{Topic: p.Topic, HasContext: p.Context != "", Current: w.nav.LastSettings()}
	case navigation.StageQuiz:
		p, _ := w.nav.Quiz()
		v.Quiz = quizView(p)
	case navigation.StageResults:
		p, _ := w.nav.Results()
		o := p.Outcome
		r := scoring.ScoreOutcome(o)
		v.Results = &ResultsView{
			Topic:    o.Topic,
			Settings: o.Settings,
			Result:   r,
			Band:     scoring.BandFor(r.Score),
			Message:  scoring.Message(r.Score),
			Review:   scoring.Review(o.Questions, o.Answers),
		}
	}
	return v
}

func quizView(p navigation.QuizPayload) *QuizView {
	s := p.Session
	qv := &QuizView{
		Topic:         p.Topic,
		Settings:      p.Settings,
		State:         s.State().String(),
		Progress:      s.Progress(),
		TimeRemaining: s.TimeRemaining(),
		TimerRunning:  s.TimerRunning(),
		CanAdvance:    s.CanAdvance(),
		CanRetreat:    s.State() == quiz.StateAnswering && s.CurrentIndex() > 0,
		IsLast:        s.IsLast(),
	}
	if q, ok := s.Current(); ok {
		qv.Question = &q
		qv.Selected, _ = s.SelectedAnswer()
	}
	if s.State() == quiz.StateFailed {
		qv.Error = userMessage(s.Failure())
	}
	return qv
}
