// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/wso2/carbon-p2/internal/artifact"
	"github.com/wso2/carbon-p2/internal/category"
	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/staging"
)

// Pipeline steps, in execution order.
const (
	StepValidate      Step = "VALIDATE"
	StepResolve       Step = "RESOLVE"
	StepStage         Step = "STAGE"
	StepExtract       Step = "EXTRACT"
	StepCopyBundles   Step = "COPY_BUNDLES"
	StepCopyResources Step = "COPY_RESOURCES"
	StepPublish       Step = "PUBLISH"
	StepCategorize    Step = "CATEGORIZE"
	StepArchive       Step = "ARCHIVE"
	StepCleanup       Step = "CLEANUP"
)

const (
	// StateAssembled is the terminal state of a successful run.
	StateAssembled State = "ASSEMBLED"
	// StateFailed is the terminal state of a run that stopped at a step.
	StateFailed State = "FAILED"
)

type (
	// Step names one stage of the pipeline.
	Step string

	// State is the outcome of a run.
	State string

	// StepError is the failure of one pipeline step.
	StepError struct {
		Step Step
		Err  error
	}

	// Result describes a finished run.
	Result struct {
		State State
		// RepositoryDir is the repository output directory. It no longer
		// exists when the repository was archived.
		RepositoryDir string
		// ArchivePath is set when the repository was archived.
		ArchivePath string
		// Bundles and Features are the populated references.
		Bundles  []artifact.BundleReference
		Features []artifact.FeatureReference
		// Steps lists the steps that ran to completion, in order.
		Steps []Step
		// Warnings are non-fatal problems, such as a failed cleanup.
		Warnings []*issue.Advisory
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)

	// Pipeline assembles repositories. A Pipeline holds no per-run state and
	// may be reused.
	Pipeline struct {
		runner   p2.ToolRunner
		resolver artifact.Resolver
		staging  *staging.Manager
		logger   *log.Logger
		invOpts  []p2.InvokerOption
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
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithStaging sets the staging manager.
func WithStaging(m *staging.Manager) Option {
	return func(p *Pipeline) {
		p.staging = m
	}
}

// WithInvokerOptions passes options to the p2 invoker.
func WithInvokerOptions(opts ...p2.InvokerOption) Option {
	return func(p *Pipeline) {
		p.invOpts = append(p.invOpts, opts...)
	}
}

// New creates a Pipeline that runs tools through runner and looks artifacts
// up through resolver.
func New(runner p2.ToolRunner, resolver artifact.Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		runner:   runner,
		resolver: resolver,
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "repository"}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.staging == nil {
		p.staging = staging.NewManager(staging.WithLogger(p.logger))
	}
	return p
}

func (p *Pipeline) invoker() *p2.Invoker {
	opts := append([]p2.InvokerOption{p2.WithInvokerLogger(p.logger)}, p.invOpts...)
	return p2.NewInvoker(p.runner, opts...)
}

// Assemble runs the pipeline for req. The returned Result is never nil; on
// failure its State is StateFailed and the error is a *StepError.
func (p *Pipeline) Assemble(ctx context.Context, req Request) (*Result, error) {
	req = req.clone()
	res := &Result{}

	fail := func(step Step, err error) (*Result, error) {
		res.State = StateFailed
		p.logger.Error("repository assembly failed", "step", step, "err", err)
		return res, &StepError{Step: step, Err: err}
	}

	if err := req.Validate(); err != nil {
		return fail(StepValidate, err)
	}
	req, err := req.absolute()
	if err != nil {
		return fail(StepValidate, err)
	}
	res.Steps = append(res.Steps, StepValidate)

	p.logger.Info("resolving artifacts")
	bundles, features, err := p.resolve(ctx, req)
	if err != nil {
		return fail(StepResolve, err)
	}
	res.Bundles, res.Features = bundles, features
	res.Steps = append(res.Steps, StepResolve)

	tree, err := p.staging.Create(req.TargetDir)
	if err != nil {
		return fail(StepStage, err)
	}
	tree.Repository = req.RepositoryLocation()
	tree.Archive = req.ArchivePath()
	res.RepositoryDir = tree.Repository

	step, err := p.build(ctx, req, tree, res)

	if adv := p.staging.Cleanup(tree); adv != nil {
		res.Warnings = append(res.Warnings, adv)
	} else {
		res.Steps = append(res.Steps, StepCleanup)
	}

	if err != nil {
		return fail(step, err)
	}
	res.State = StateAssembled
	p.logger.Info("repository assembled", "repository", res.RepositoryDir, "archive", res.ArchivePath)
	return res, nil
}

func (p *Pipeline) resolve(ctx context.Context, req Request) ([]artifact.BundleReference, []artifact.FeatureReference, error) {
	if p.resolver == nil {
		return nil, nil, errors.New("no artifact resolver configured")
	}
	resolvedBundles, resolvedFeatures, err := p.resolver.Resolve(ctx)
	if err != nil {
		return nil, nil, err
	}
	cache := artifact.NewCache(resolvedBundles, resolvedFeatures)
	return cache.Resolve(req.Bundles, req.Features)
}

// build runs STAGE (after tree creation) through ARCHIVE and reports the step
// that failed.
func (p *Pipeline) build(ctx context.Context, req Request, tree *staging.Tree, res *Result) (Step, error) {
	if err := os.MkdirAll(tree.Repository, 0o755); err != nil {
		return StepStage, &staging.IOError{Op: "create repository directory", Path: tree.Repository, Err: err}
	}
	res.Steps = append(res.Steps, StepStage)

	for _, f := range res.Features {
		if err := p.staging.ExtractFeature(f.File, tree.Source, f.Coordinates()); err != nil {
			return StepExtract, err
		}
	}
	res.Steps = append(res.Steps, StepExtract)

	for _, b := range res.Bundles {
		if err := p.staging.CopyBundle(b.File, tree.PluginsDir(), b.SymbolicName); err != nil {
			return StepCopyBundles, err
		}
	}
	res.Steps = append(res.Steps, StepCopyBundles)

	if _, err := p.staging.CopyResources(req.ResourceDirs, tree.Repository); err != nil {
		return StepCopyResources, err
	}
	res.Steps = append(res.Steps, StepCopyResources)

	invoker := p.invoker()
	repoURI, err := p2.FileURI(tree.Repository)
	if err != nil {
		return StepPublish, &staging.IOError{Op: "resolve repository location", Path: tree.Repository, Err: err}
	}

	p.logger.Info("publishing repository", "repository", tree.Repository)
	if err := invoker.Invoke(ctx, publishInvocation(req, tree.Source, repoURI)); err != nil {
		return StepPublish, err
	}
	res.Steps = append(res.Steps, StepPublish)

	if len(req.Categories) > 0 {
		p.logger.Info("categorizing repository", "categories", len(req.Categories))
		if _, err := category.NewBuilder(req.Properties).WriteFile(req.Categories, tree.CategoryFile); err != nil {
			return StepCategorize, err
		}
		categoryURI, err := p2.FileURI(tree.CategoryFile)
		if err != nil {
			return StepCategorize, &category.BuildError{Reason: "resolve category file location", Err: err}
		}
		if err := invoker.Invoke(ctx, categorizeInvocation(req, repoURI, categoryURI)); err != nil {
			return StepCategorize, err
		}
		res.Steps = append(res.Steps, StepCategorize)
	}

	if req.Archive {
		if err := p.staging.Archive(tree.Repository, tree.Archive); err != nil {
			return StepArchive, err
		}
		if err := p.staging.RemoveDir(tree.Repository); err != nil {
			return StepArchive, err
		}
		res.ArchivePath = tree.Archive
		p.logger.Info("repository archived", "archive", tree.Archive)
		res.Steps = append(res.Steps, StepArchive)
	}
	return "", nil
}
