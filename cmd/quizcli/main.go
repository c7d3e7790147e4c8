package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/quizflash/internal/cli"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/quizapi"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/worker"
)

func main() {
	cfg := config.Load()

	server := flag.String("server", cfg.QuizAPIURL, "quiz service base URL")
	timeout := flag.Duration("timeout", cfg.HTTPTimeout(), "timeout for each quiz service request")
	logLevel := flag.String("log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	if !logger.ValidLevel(*logLevel) {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(*logLevel)),
		logger.WithOutput(os.Stderr),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool(2, 8)
	pool.Start(ctx)
	defer pool.Stop()

	client := quizapi.New(*server, *timeout)
	quiz := services.NewQuizService(jobs.NewWorkerQueue(pool, client), nil)

	app := cli.New(quiz, os.Stdout)
	if err := app.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error("quiz cli stopped: %v", err)
		os.Exit(1)
	}
}
