package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kirillkom/style-sage/internal/adapters/cli"
	"github.com/kirillkom/style-sage/internal/adapters/terminal"
	"github.com/kirillkom/style-sage/internal/bootstrap"
	"github.com/kirillkom/style-sage/internal/config"
	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/session"
	"github.com/kirillkom/style-sage/internal/observability/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "load .env: %v\n", err)
	}

	opts, err := cli.ParseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := config.Load()
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.Strict {
		cfg.StrictResponse = true
	}
	logger := logging.NewTextLogger(stderr, bootstrap.ClientServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := bootstrap.NewClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "init client: %v\n", err)
		return 1
	}

	file, err := cli.LoadPhoto(ctx, opts.PhotoPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	presenter := terminal.Presenter{
		Color:           !opts.NoColor && !opts.JSON && colorTerminal(),
		ExpandRationale: opts.Why,
		JSON:            opts.JSON,
	}
	client.Store.Subscribe(func(prev, next session.State) {
		if prev.Outcome.Kind == next.Outcome.Kind && prev.Outcome.Result == next.Outcome.Result {
			return
		}
		out := stdout
		if next.Outcome.Kind != domain.OutcomeSuccess {
			out = stderr
		}
		if err := presenter.Render(out, next.Outcome); err != nil {
			logger.Error("render_failed", "error", err)
		}
	})

	opts.Apply(client.Store)
	state := client.Store.SelectFile(file)

	submission := client.Controller.Submit(ctx, state.Survey, state.File)
	if submission.Outcome().Kind != domain.OutcomeSuccess {
		return 1
	}
	return 0
}

func colorTerminal() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
