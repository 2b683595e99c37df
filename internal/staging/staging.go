// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wso2/carbon-p2/internal/issue"
)

const (
	// SourceDirName is the publisher source directory inside a tree.
	SourceDirName = "featureExtract"
	// PluginsDirName is where bundle jars go inside the source directory.
	PluginsDirName = "plugins"
	// CategoryFileName is the category descriptor written inside a tree.
	CategoryFileName = "category.xml"

	tempDirPrefix = "tmp."
)

// ErrStagingIO is the sentinel error wrapped by IOError.
var ErrStagingIO = errors.New("staging I/O failure")

type (
	// Clock supplies the timestamp that names a tree.
	Clock interface {
		Now() time.Time
	}

	realClock struct{}

	// Tree is the on-disk working area of one assembly run.
	Tree struct {
		// Root is <base>/tmp.<unix-millis>.
		Root string
		// Source is Root/featureExtract, the publisher's -source.
		Source string
		// Repository is the repository output directory.
		Repository string
		// Archive is the zip written when archiving is requested.
		Archive string
		// CategoryFile is the category descriptor location.
		CategoryFile string
	}

	// IOError is a failed extraction, copy, archive or removal.
	IOError struct {
		Op string
		// Path is the file or directory being processed.
		Path string
		// Artifact identifies the artifact involved, if any.
		Artifact string
		Err      error
	}

	// Option configures a Manager.
	Option func(*Manager)

	// Manager creates, fills and removes staging trees.
	Manager struct {
		clock     Clock
		logger    *log.Logger
		removeAll func(path string) error
	}
)

func (realClock) Now() time.Time { return time.Now() }

// Error implements the error interface.
func (e *IOError) Error() string {
	msg := e.Op
	if e.Artifact != "" {
		msg += " " + e.Artifact
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap exposes both ErrStagingIO and the underlying cause.
func (e *IOError) Unwrap() []error { return []error{ErrStagingIO, e.Err} }

// IssueID links the error to its catalog entry.
func (e *IOError) IssueID() issue.Id { return issue.StagingIOFailureId }

// WithClock sets the clock used to name trees.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithRemoveAll replaces os.RemoveAll for tree removal.
func WithRemoveAll(fn func(path string) error) Option {
	return func(m *Manager) {
		m.removeAll = fn
	}
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock:     realClock{},
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "staging"}),
		removeAll: os.RemoveAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create makes <baseDir>/tmp.<unix-millis>/featureExtract. The tmp directory
// is created non-recursively, so an existing directory with the same name
// fails the call instead of being reused.
func (m *Manager) Create(baseDir string) (*Tree, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &IOError{Op: "create staging base", Path: baseDir, Err: err}
	}

	root := filepath.Join(baseDir, tempDirPrefix+strconv.FormatInt(m.clock.Now().UnixMilli(), 10))
	if err := os.Mkdir(root, 0o755); err != nil {
		return nil, &IOError{Op: "create staging tree", Path: root, Err: err}
	}

	source := filepath.Join(root, SourceDirName)
	if err := os.Mkdir(source, 0o755); err != nil {
		_ = m.removeAll(root) // best-effort; the tree was never handed out
		return nil, &IOError{Op: "create staging tree", Path: source, Err: err}
	}

	m.logger.Debug("created staging tree", "root", root)
	return &Tree{
		Root:         root,
		Source:       source,
		CategoryFile: filepath.Join(root, CategoryFileName),
	}, nil
}

// PluginsDir returns the bundle directory of the tree's source.
func (t *Tree) PluginsDir() string {
	return filepath.Join(t.Source, PluginsDirName)
}

// Cleanup removes the tree. Removing a tree that is already gone succeeds.
// A failure comes back as a warning-severity *issue.Advisory; callers log it
// and keep their outcome.
func (m *Manager) Cleanup(t *Tree) *issue.Advisory {
	if t == nil || t.Root == "" {
		return nil
	}
	if err := m.removeAll(t.Root); err != nil {
		adv := issue.Warning("clean up staging tree", &IOError{Op: "remove staging tree", Path: t.Root, Err: err})
		m.logger.Warn("failed to remove staging tree", "root", t.Root, "err", err)
		return adv
	}
	m.logger.Debug("removed staging tree", "root", t.Root)
	return nil
}
