package cli

import (
	"fmt"
	"strings"

	"github.com/vytor/quizflash/internal/scoring"
	"github.com/vytor/quizflash/internal/settings"
	"github.com/vytor/quizflash/internal/workspace"
)

// screenKey changes whenever the screen needs a full redraw.
func screenKey(v workspace.View) string {
	key := fmt.Sprintf("%s|%t|%s", v.Stage, v.Extracting, v.Notice)
	if v.Quiz != nil {
		key += fmt.Sprintf("|%s|%d|%s", v.Quiz.State, v.Quiz.Progress.Index, v.Quiz.Selected)
	}
	return key
}

// render redraws the screen when it changed (or when force is set). A
// running timer on an unchanged screen only prints the occasional countdown.
func (c *CLI) render(force bool) {
	v := c.ws.View()
	key := screenKey(v)

	if v.Stage != c.lastStage {
		if v.Settings != nil {
			c.draft = v.Settings.Current
		}
		c.lastStage = v.Stage
	}

	if !force && key == c.lastKey {
		if q := v.Quiz; q != nil && q.TimerRunning && (q.TimeRemaining <= 5 || q.TimeRemaining%10 == 0) {
			fmt.Fprintf(c.out, "  %s left\n", clock(q.TimeRemaining))
		}
		return
	}
	c.lastKey = key

	switch {
	case v.Settings != nil:
		c.renderSettings(v)
	case v.Quiz != nil:
		c.renderQuiz(v.Quiz)
	case v.Results != nil:
		c.renderResults(v.Results)
	default:
		c.renderTopic(v)
	}
	if v.Notice != "" {
		fmt.Fprintf(c.out, "! %s\n", v.Notice)
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (c *CLI) renderTopic(v workspace.View) {
	fmt.Fprintln(c.out, "\n== QuizFlash ==")
	fmt.Fprintln(c.out, "Type a topic, or :image <path> to read one from a photo. :q quits.")
	if v.Extracting {
		fmt.Fprintln(c.out, "Reading text from your image...")
	}
	if v.TopicDraft != "" {
		fmt.Fprintf(c.out, "Topic: %s (press enter to continue)\n", v.TopicDraft)
	}
}

func (c *CLI) renderSettings(v workspace.View) {
	s := c.draft
	title := v.Settings.Topic
	if v.Settings.HasContext {
		title += " (with image text)"
	}
	fmt.Fprintf(c.out, "\n== Settings: %s ==\n", title)
	fmt.Fprintf(c.out, "  questions:  %d %v\n", s.NumberOfQuestions, settings.QuestionCounts)
	fmt.Fprintf(c.out, "  difficulty: %s %v\n", s.Difficulty, settings.Difficulties)
	fmt.Fprintf(c.out, "  timer:      %s\n", s.TimerLabel())
	if s.TimerEnabled() {
		fmt.Fprintf(c.out, "  limits:     %v\n", settings.LimitChoices(s.TimerMode()))
	}
	fmt.Fprintln(c.out, "count N | difficulty easy|medium|hard | timer on|off | mode perQuestion|total | limit N | start | back")
}

func (c *CLI) renderQuiz(q *workspace.QuizView) {
	switch q.State {
	case "loading":
		fmt.Fprintf(c.out, "\nGenerating questions about %s... (cancel to go back)\n", q.Topic)
		return
	case "failed":
		fmt.Fprintf(c.out, "\n! %s\n", q.Error)
		fmt.Fprintln(c.out, "r retry | h home")
		return
	}
	if q.Question == nil {
		return
	}

	header := fmt.Sprintf("Question %d/%d, %d answered", q.Progress.Index+1, q.Progress.Total, q.Progress.Answered)
	if q.TimerRunning {
		header += ", " + clock(q.TimeRemaining) + " left"
	}
	fmt.Fprintf(c.out, "\n-- %s --\n%s\n", header, q.Question.Prompt)
	for i, opt := range q.Question.Options {
		mark := " "
		if opt == q.Selected {
			mark = "*"
		}
		fmt.Fprintf(c.out, " %s %c) %s\n", mark, 'a'+i, opt)
	}

	cmds := []string{"a-d answer"}
	if q.CanAdvance {
		if q.IsLast {
			cmds = append(cmds, "n finish")
		} else {
			cmds = append(cmds, "n next")
		}
	}
	if q.CanRetreat {
		cmds = append(cmds, "p previous")
	}
	cmds = append(cmds, "f finish now", "back")
	fmt.Fprintln(c.out, strings.Join(cmds, " | "))
}

func (c *CLI) renderResults(r *workspace.ResultsView) {
	res := r.Result
	fmt.Fprintf(c.out, "\n== Results: %s ==\n", r.Topic)
	fmt.Fprintf(c.out, "Score: %d%% (%d/%d correct) %s\n", res.Score, res.CorrectCount, res.TotalQuestions, r.Message)
	fmt.Fprintf(c.out, "Answered %d, accuracy %d%%, completion %d%%\n", res.AnsweredCount, res.Accuracy, res.Completion)
	for _, item := range r.Review {
		fmt.Fprintf(c.out, "%2d. [%s] %s\n", item.Index+1, statusMark(item.Status), item.Prompt)
		switch item.Status {
		case scoring.StatusCorrect:
			fmt.Fprintf(c.out, "    %s\n", item.Correct)
		case scoring.StatusIncorrect:
			fmt.Fprintf(c.out, "    you: %s, answer: %s\n", item.Selected, item.Correct)
		default:
			fmt.Fprintf(c.out, "    skipped, answer: %s\n", item.Correct)
		}
	}
	fmt.Fprintln(c.out, "r retake | n new topic | :q quit")
}

func statusMark(s scoring.ReviewStatus) string {
	switch s {
	case scoring.StatusCorrect:
		return "ok"
	case scoring.StatusIncorrect:
		return "x"
	default:
		return "-"
	}
}
