// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/wso2/carbon-p2/internal/config"
	"github.com/wso2/carbon-p2/internal/descriptor"
	"github.com/wso2/carbon-p2/internal/p2"
)

type (
	// RunnerFactory builds the ToolRunner of a run from the loaded settings.
	RunnerFactory func(cfg *config.Config, logger *log.Logger, stdout, stderr io.Writer) p2.ToolRunner

	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and go through it for settings, descriptors and tools.
	App struct {
		Config    config.Provider
		NewRunner RunnerFactory
		stdout    io.Writer
		stderr    io.Writer

		flags rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		NewRunner RunnerFactory
		Stdout    io.Writer
		Stderr    io.Writer
	}

	rootFlags struct {
		configFile string
		descriptor string
		verbose    bool
	}

	// session is everything one command invocation needs.
	session struct {
		cfg      *config.Config
		build    *descriptor.Build
		logger   *log.Logger
		runner   p2.ToolRunner
		defaults descriptor.Defaults
		runID    string
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewRunner == nil {
		deps.NewRunner = launcherRunner
	}
	return &App{
		Config:    deps.Config,
		NewRunner: deps.NewRunner,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		flags:     rootFlags{descriptor: descriptor.DefaultFileName},
	}
}

func launcherRunner(cfg *config.Config, logger *log.Logger, stdout, stderr io.Writer) p2.ToolRunner {
	return p2.NewLauncherRunner(cfg.Launcher,
		p2.WithOutput(stdout, stderr),
		p2.WithLauncherLogger(logger.WithPrefix("launcher")),
	)
}

// loadSettings loads the tool settings, honoring --config.
func (a *App) loadSettings(ctx context.Context) (*config.Loaded, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
}

// loadConfig is loadSettings without the source file.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	loaded, err := a.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return loaded.Config, nil
}

// verbose reports whether --verbose or ui.verbose is set.
func (a *App) verbose(cfg *config.Config) bool {
	return a.flags.verbose || (cfg != nil && cfg.UI.Verbose)
}

// newLogger builds the root logger of a run.
func (a *App) newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: true,
		Level:           cfg.LogLevel.Level(),
	})
	if a.verbose(cfg) {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// open loads settings and the build descriptor and prepares the tool runner.
func (a *App) open(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	build, err := descriptor.Load(a.flags.descriptor)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := a.newLogger(cfg).With("run", runID)
	logger.Debug("loaded build descriptor", "path", a.flags.descriptor, "base", build.Base())

	return &session{
		cfg:      cfg,
		build:    build,
		logger:   logger,
		runner:   a.NewRunner(cfg, logger, a.stdout, a.stderr),
		defaults: descriptor.Defaults{Timeout: cfg.Timeout(), Profile: cfg.DefaultProfile},
		runID:    runID,
	}, nil
}

// invokerOptions shows the configured launcher in logged command lines.
func (s *session) invokerOptions() []p2.InvokerOption {
	return []p2.InvokerOption{p2.WithDisplayLauncher(s.cfg.Launcher)}
}
