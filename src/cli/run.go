package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"favicongen/src/config"
	"favicongen/src/deployer"
	"favicongen/src/generator"
	"favicongen/src/notify"
	"favicongen/src/watcher"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
)

// NewLogger returns a text logger on w; verbose enables debug output
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Run executes the command line and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	opts, err := ParseArgs(args)
	if err != nil {
		return fail(stderr, err, true)
	}
	if opts.Help {
		Usage(stdout)
		return ExitOK
	}

	cfg, err := BuildConfig(opts, ".env")
	if err != nil {
		return fail(stderr, err, true)
	}

	logger := NewLogger(stderr, cfg.Verbose)
	a := &app{cfg: cfg, opts: opts, stdout: stdout, stderr: stderr, logger: logger}

	code := a.generate()
	if code != ExitOK || !opts.Watch {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.watch(ctx)
}

type app struct {
	cfg    *config.Config
	opts   *Options
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// generate runs one full generation, deploy and notification pass
func (a *app) generate() int {
	report, err := generator.Generate(a.cfg, a.logger)
	if err != nil {
		var ve *config.ValidationError
		return fail(a.stderr, err, errors.As(err, &ve))
	}

	total, failed := report.Summary()
	if a.opts.JSON {
		data, err := report.JSON()
		if err != nil {
			a.logger.Error("Failed to encode report", "error", err)
			return ExitError
		}
		fmt.Fprintln(a.stdout, string(data))
	} else {
		for _, r := range report.Failed() {
			fmt.Fprintf(a.stdout, "✗ %s: %s\n", r.Path, r.ErrorText())
		}
		fmt.Fprintf(a.stdout, "✅ %d of %d files written to %s\n", total-failed, total, a.cfg.OutputDir)
	}

	if err := deployer.NewDeployer(a.cfg.Deploy, nil, a.logger).Deploy(a.cfg.OutputDir); err != nil {
		a.logger.Error("Deploy failed", "error", err)
		return ExitError
	}

	if err := notify.NewNtfySender(a.cfg.Ntfy, a.logger).SendSummary(a.cfg.Name, total, failed); err != nil {
		a.logger.Warn("Notification failed", "error", err)
	}
	return ExitOK
}

// watch regenerates on every source change until ctx is done
func (a *app) watch(ctx context.Context) int {
	w, err := watcher.NewWatcher(a.cfg.Source, a.logger)
	if err != nil {
		a.logger.Error("Failed to create watcher", "error", err)
		return ExitError
	}
	defer w.Stop()

	err = w.Start(func(ev watcher.Event) {
		a.logger.Info("Source changed, regenerating", "event", ev.Type.String())
		a.generate()
	})
	if err != nil {
		a.logger.Error("Failed to start watcher", "error", err)
		return ExitError
	}

	fmt.Fprintln(a.stdout, "Press Ctrl+C to stop")
	<-ctx.Done()
	a.logger.Info("Shutting down...")
	return ExitOK
}

// fail prints err, optionally followed by usage, and returns ExitError
func fail(w io.Writer, err error, usage bool) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	if usage {
		fmt.Fprintln(w)
		Usage(w)
	}
	return ExitError
}

// Main is the process entry point
func Main() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
