// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/staging"
)

// Lifecycle steps.
const (
	StepValidate    Step = "VALIDATE"
	StepLauncherIni Step = "LAUNCHER_INI"
	StepInstall     Step = "INSTALL"
	StepUninstall   Step = "UNINSTALL"
	StepGenerate    Step = "GENERATE"
	StepBootConfig  Step = "BOOT_CONFIG"
	StepPrune       Step = "PRUNE"
)

type (
	// Step names one stage of a profile operation.
	Step string

	// StepError is the failure of one step.
	StepError struct {
		Step Step
		Err  error
	}

	// Option configures a Manager.
	Option func(*Manager)

	// Manager runs profile operations against an installation directory.
	// The profile registry is not locked; concurrent operations on the same
	// destination are the caller's problem.
	Manager struct {
		runner    p2.ToolRunner
		logger    *log.Logger
		retention RetentionOrder
		remove    func(path string) error
		invOpts   []p2.InvokerOption
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the step's cause.
func (e *StepError) Unwrap() error { return e.Err }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithRetentionOrder sets the order in which old snapshots are pruned.
func WithRetentionOrder(o RetentionOrder) Option {
	return func(m *Manager) {
		m.retention = o
	}
}

// WithRemove replaces os.Remove for snapshot deletion.
func WithRemove(fn func(path string) error) Option {
	return func(m *Manager) {
		m.remove = fn
	}
}

// WithInvokerOptions passes options to the p2 invoker.
func WithInvokerOptions(opts ...p2.InvokerOption) Option {
	return func(m *Manager) {
		m.invOpts = append(m.invOpts, opts...)
	}
}

// New creates a Manager that runs the director through runner.
func New(runner p2.ToolRunner, opts ...Option) *Manager {
	m := &Manager{
		runner:    runner,
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "profile"}),
		retention: RetentionListing,
		remove:    os.Remove,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) invoker() *p2.Invoker {
	opts := append([]p2.InvokerOption{p2.WithInvokerLogger(m.logger)}, m.invOpts...)
	return p2.NewInvoker(m.runner, opts...)
}

// Install installs req.Features into the profile, points the profile's boot
// configuration at the shared data area and prunes old registry snapshots.
func (m *Manager) Install(ctx context.Context, req InstallRequest) error {
	inv, err := PlanInstall(req)
	if err != nil {
		return err
	}
	if err := m.retention.Validate(); err != nil {
		return &StepError{Step: StepValidate, Err: err}
	}
	layout := req.Layout()

	if err := m.writeLauncherIni(layout); err != nil {
		return &StepError{Step: StepLauncherIni, Err: err}
	}

	m.logger.Info("installing features", "profile", layout.Profile, "destination", layout.Destination, "features", len(req.Features))
	if err := m.invoker().Invoke(ctx, inv); err != nil {
		return &StepError{Step: StepInstall, Err: err}
	}

	if err := m.updateBootConfig(layout); err != nil {
		return &StepError{Step: StepBootConfig, Err: err}
	}

	if req.KeepOldProfiles {
		return nil
	}
	if _, err := m.Prune(layout); err != nil {
		return &StepError{Step: StepPrune, Err: err}
	}
	return nil
}

// Uninstall removes req.Features from the profile.
func (m *Manager) Uninstall(ctx context.Context, req UninstallRequest) error {
	inv, err := PlanUninstall(req)
	if err != nil {
		return err
	}
	layout := req.Layout()

	m.logger.Info("uninstalling features", "profile", layout.Profile, "destination", layout.Destination, "features", len(req.Features))
	if err := m.invoker().Invoke(ctx, inv); err != nil {
		return &StepError{Step: StepUninstall, Err: err}
	}
	return nil
}

// GenerateProfile installs the product req.ProductID as a new profile and
// rewrites its boot configuration. Snapshots are not pruned.
func (m *Manager) GenerateProfile(ctx context.Context, req GenerateRequest) error {
	inv, err := PlanGenerate(req)
	if err != nil {
		return err
	}
	layout := req.Layout()

	m.logger.Info("generating profile", "profile", layout.Profile, "product", req.ProductID)
	if err := m.invoker().Invoke(ctx, inv); err != nil {
		return &StepError{Step: StepGenerate, Err: err}
	}

	if err := m.updateBootConfig(layout); err != nil {
		return &StepError{Step: StepBootConfig, Err: err}
	}
	return nil
}

// writeLauncherIni points an existing eclipse.ini at the profile directory.
func (m *Manager) writeLauncherIni(layout p2.Layout) error {
	path := layout.EclipseIni()
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &staging.IOError{Op: "inspect launcher ini", Path: path, Err: err}
	}
	if info.IsDir() {
		return &staging.IOError{Op: "rewrite launcher ini", Path: path, Err: errors.New("is a directory")}
	}

	m.logger.Info("updating launcher ini", "path", path)
	content := "-install\n" + layout.ProfileDir()
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return &staging.IOError{Op: "rewrite launcher ini", Path: path, Err: err}
	}
	return nil
}

func (m *Manager) updateBootConfig(layout p2.Layout) error {
	path := layout.ConfigIni()
	m.logger.Info("updating boot configuration", "path", path, "key", DataAreaKey)
	if err := SetProperty(path, DataAreaKey, DataAreaValue); err != nil {
		return &staging.IOError{Op: "update boot configuration", Path: path, Err: err}
	}
	return nil
}
