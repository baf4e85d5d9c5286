package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/logwarden/internal/config"
	"github.com/crimson-sun/logwarden/internal/engine"
	"github.com/crimson-sun/logwarden/internal/engine/threat"
	"github.com/crimson-sun/logwarden/internal/engine/validator"
	"github.com/crimson-sun/logwarden/internal/logging"
	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/output"
	"github.com/crimson-sun/logwarden/internal/output/file"
	"github.com/crimson-sun/logwarden/internal/output/multi"
	"github.com/crimson-sun/logwarden/internal/output/stdout"
	"github.com/crimson-sun/logwarden/internal/output/webhook"
	"github.com/crimson-sun/logwarden/internal/pipeline"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "logwarden: %v\n", err)
		return exitUsage
	}

	if err := parseFlags(&cfg, args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if cfg.ShowVersion {
		fmt.Fprintf(os.Stdout, "logwarden %s\n", config.Version)
		return exitOK
	}
	if cfg.Input.Path == "" {
		fmt.Fprintln(stderr, "usage: logwarden [flags] <logfile>")
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "logwarden: invalid configuration:\n%v\n", err)
		return exitUsage
	}

	logging.Init(cfg.Output.Format != string(stdout.Text), logging.ParseLevel(cfg.LogLevel))

	mode, err := validator.ParseMode(cfg.Input.Validation)
	if err != nil {
		slog.Error("invalid validation mode", "error", err)
		return exitUsage
	}
	eng := engine.New(validator.New(mode), threat.New(cfg.Engine.FailedLoginThreshold),
		engine.WithRequireValid(cfg.Input.RequireValid),
	)

	out, err := buildOutput(cfg.Output)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		return exitFailure
	}

	p := pipeline.New(eng, out)
	defer func() {
		if err := p.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Debug("starting analysis",
		"input", cfg.Input.Path,
		"validation", mode.String(),
		"threshold", cfg.Engine.FailedLoginThreshold)

	if _, err := p.Run(ctx, cfg.Input.Path); err != nil {
		return exitCode(err)
	}
	return exitOK
}

// parseFlags overrides cfg with command-line flags. The first positional
// argument is the log file.
func parseFlags(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("logwarden", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: logwarden [flags] <logfile>")
		fmt.Fprintln(fs.Output(), "Use - as <logfile> to read standard input.")
		fs.PrintDefaults()
	}

	allowInvalid := !cfg.Input.RequireValid
	fs.IntVar(&cfg.Engine.FailedLoginThreshold, "threshold", cfg.Engine.FailedLoginThreshold, "failed logins a client must exceed to be flagged")
	fs.StringVar(&cfg.Input.Validation, "validation", cfg.Input.Validation, "validation mode: strict or lenient")
	fs.StringVar(&cfg.Output.Format, "format", cfg.Output.Format, "stdout format: text, json, or csv")
	fs.BoolVar(&cfg.Output.Pretty, "pretty", cfg.Output.Pretty, "indent JSON output")
	fs.StringVar(&cfg.Output.CSVPath, "csv", cfg.Output.CSVPath, "also write the CSV report to this file")
	fs.StringVar(&cfg.Output.WebhookURL, "webhook", cfg.Output.WebhookURL, "also POST the JSON report to this URL")
	fs.BoolVar(&allowInvalid, "allow-invalid", allowInvalid, "analyze the lines that match even if validation fails")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Input.RequireValid = !allowInvalid
	if fs.NArg() > 0 {
		cfg.Input.Path = fs.Arg(0)
	}
	return nil
}

func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	outs := []output.Output{stdout.New(stdout.Format(cfg.Format), cfg.Pretty)}

	if cfg.CSVPath != "" {
		f, err := file.New(cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		outs = append(outs, f)
	}
	if cfg.WebhookURL != "" {
		outs = append(outs, webhook.New(cfg.WebhookURL,
			webhook.WithTimeout(cfg.WebhookTimeout),
			webhook.WithHeaders(cfg.WebhookHeaders),
		))
	}

	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}

// exitCode logs a run failure and maps it to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		slog.Error("cannot read log file", "error", err)
	case errors.Is(err, model.ErrInvalidLog):
		slog.Error("log file failed validation", "error", err)
	case errors.Is(err, context.Canceled):
		slog.Warn("analysis canceled")
	default:
		slog.Error("analysis failed", "error", err)
	}
	return exitFailure
}
