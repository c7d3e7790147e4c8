// Package cli runs a quiz workspace in a terminal. All input lines and
// workspace changes are handled on one goroutine, so rendering never races
// with user actions.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/navigation"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/settings"
	"github.com/vytor/quizflash/internal/workspace"
)

type CLI struct {
	ws       *workspace.Workspace
	quiz     services.QuizService
	out      io.Writer
	log      *logger.Logger
	changes  chan struct{}
	readFile func(string) ([]byte, error)
	wsOpts   []workspace.Option

	// draft holds the settings being edited on the settings screen.
	draft     models.Settings
	lastKey   string
	lastStage string
}

type Option func(*CLI)

// WithWorkspaceOptions passes opts to the workspace the CLI drives.
func WithWorkspaceOptions(opts ...workspace.Option) Option {
	return func(c *CLI) { c.wsOpts = append(c.wsOpts, opts...) }
}

// WithFileReader replaces os.ReadFile for the :image command.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(c *CLI) { c.readFile = fn }
}

func New(quiz services.QuizService, out io.Writer, opts ...Option) *CLI {
	c := &CLI{
		quiz:     quiz,
		out:      out,
		log:      logger.Default().WithPrefix("cli"),
		changes:  make(chan struct{}, 1),
		readFile: os.ReadFile,
		draft:    settings.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	wsOpts := append(c.wsOpts, workspace.WithNotify(c.signal))
	c.ws = workspace.New(uuid.NewString(), wsOpts...)
	return c
}

// signal is called by the workspace after a background change. It never
// blocks; one pending signal is enough to trigger a render.
func (c *CLI) signal() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Run reads commands from in until EOF, ":q" or ctx is done.
func (c *CLI) Run(ctx context.Context, in io.Reader) error {
	defer c.ws.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			c.log.Warn("reading input: %v", err)
		}
	}()

	c.render(true)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == ":q" || line == "quit" {
				fmt.Fprintln(c.out, "Bye!")
				return nil
			}
			if err := c.handle(ctx, line); err != nil {
				fmt.Fprintf(c.out, "! %s\n", describe(err))
				continue
			}
			c.render(true)
		case <-c.changes:
			c.render(false)
		}
	}
}

func describe(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}

func (c *CLI) handle(ctx context.Context, line string) error {
	switch c.ws.Stage() {
	case navigation.StageTopicEntry:
		return c.topicCommand(ctx, line)
	case navigation.StageSettings:
		return c.settingsCommand(ctx, line)
	case navigation.StageQuiz:
		return c.quizCommand(ctx, line)
	case navigation.StageResults:
		return c.resultsCommand(line)
	}
	return nil
}

func (c *CLI) topicCommand(ctx context.Context, line string) error {
	if path, ok := strings.CutPrefix(line, ":image "); ok {
		path = strings.TrimSpace(path)
		data, err := c.readFile(path)
		if err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("cannot read %s: %v", path, err))
		}
		return c.quiz.ExtractTopic(ctx, c.ws, filepath.Base(path), data)
	}
	if line == "" {
		line = c.ws.View().TopicDraft
	}
	return c.ws.SubmitTopic(line)
}

func (c *CLI) settingsCommand(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fields = []string{"start"}
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	var err error
	next := c.draft
	switch fields[0] {
	case "start", "s":
		return c.quiz.StartQuiz(ctx, c.ws, c.draft)
	case "back", "b":
		return c.ws.BackToTopic()
	case "count", "n":
		var n int
		if n, err = strconv.Atoi(arg); err != nil {
			return errors.NewBadRequestError("count needs a number")
		}
		next, err = settings.WithQuestionCount(next, n)
	case "difficulty", "d":
		next, err = settings.WithDifficulty(next, models.Difficulty(arg))
	case "timer", "t":
		next = settings.WithTimerEnabled(next, arg != "off")
	case "mode", "m":
		next, err = settings.WithTimerMode(next, models.TimerMode(arg))
	case "limit", "l":
		var n int
		if n, err = strconv.Atoi(arg); err != nil {
			return errors.NewBadRequestError("limit needs a number of seconds")
		}
		next, err = settings.WithTimeLimit(next, n)
	default:
		return unknown(fields[0])
	}
	if err != nil {
		return err
	}
	c.draft = next
	return nil
}

func (c *CLI) quizCommand(ctx context.Context, line string) error {
	v := c.ws.View()
	if v.Quiz == nil {
		return nil
	}
	if v.Quiz.State == "failed" {
		switch line {
		case "r", "retry":
			return c.quiz.Retry(ctx, c.ws)
		case "h", "home":
			return c.ws.Home()
		}
		return unknown(line)
	}

	switch line {
	case "", "n", "next":
		return c.ws.Next()
	case "p", "prev":
		return c.ws.Previous()
	case "f", "finish":
		return c.ws.Finish()
	case "back", "cancel":
		return c.ws.BackToSettings()
	}
	if v.Quiz.Question != nil {
		if i, ok := optionIndex(line, len(v.Quiz.Question.Options)); ok {
			return c.ws.SelectAnswer(v.Quiz.Question.Options[i])
		}
	}
	return unknown(line)
}

// optionIndex accepts "a".."d" or "1".."4".
func optionIndex(s string, n int) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	ch := strings.ToLower(s)[0]
	var i int
	switch {
	case ch >= 'a' && ch <= 'z':
		i = int(ch - 'a')
	case ch >= '1' && ch <= '9':
		i = int(ch - '1')
	default:
		return 0, false
	}
	return i, i < n
}

func (c *CLI) resultsCommand(line string) error {
	switch line {
	case "r", "retake":
		return c.ws.Retake()
	case "n", "new":
		return c.ws.NewTopic()
	}
	return unknown(line)
}

func unknown(cmd string) error {
	return errors.NewBadRequestError(fmt.Sprintf("unknown command %q", cmd))
}
