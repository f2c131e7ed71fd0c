package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/markx/internal/services"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/desertthunder/markx/internal/tasks"
	"github.com/desertthunder/markx/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	input        io.Reader
	covers       services.CoverFetcher
	customCovers bool
	prompt       ui.Prompter
	engine       *tasks.Engine
	now          func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Covers     services.CoverFetcher // Replaces the NeoDB service built from Config
	Prompt     ui.Prompter           // Replaces the prompt chosen from Input
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Runner{
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
		input:        opts.Input,
		covers:       opts.Covers,
		customCovers: opts.Covers != nil,
		prompt:       opts.Prompt,
		now:          opts.Now,
	}
	r.configure(opts.Config)
	return r
}

// configure swaps in cfg and rebuilds the services that depend on it.
func (r *Runner) configure(cfg *shared.Config) {
	r.config = cfg
	if !r.customCovers {
		r.covers = services.NewNeoDBService(cfg.Covers.Origin, cfg.Covers.UserAgent, cfg.Covers.Timeout(), r.httpClient)
	}
	r.engine = tasks.NewEngine(r.covers, r.logger, tasks.EngineOpts{
		OutputDir:    cfg.Files.OutputDir,
		OutputPrefix: cfg.Files.OutputPrefix,
		Workers:      cfg.Covers.Workers,
		RateLimit:    cfg.Covers.RateLimit,
	})
}

// Before applies the global flags: log level and configuration file.
//
// A missing config file means defaults, unless --config names it explicitly. The setup command is
// exempt since it creates the file.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if cmd.IsSet("config") && cmd.Args().First() != "setup" {
			return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	cfg, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.configure(cfg)
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

// prompter returns the injected prompt, the bubbletea prompt when input is a terminal, or the line prompt.
func (r *Runner) prompter() ui.Prompter {
	if r.prompt != nil {
		return r.prompt
	}
	if f, ok := r.input.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ui.NewTerminalPrompt(f, r.output, r.now)
	}
	return ui.NewLinePrompt(r.input, r.output, r.now)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, mergeCommand, reconcileCommand, exportCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
