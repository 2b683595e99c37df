// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"cmp"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/staging"
)

const snapshotSuffix = ".profile"

// Snapshots lists the profile's registry snapshots in the manager's retention
// order; the last entry is the one pruning keeps. A missing registry yields
// no snapshots.
func (m *Manager) Snapshots(layout p2.Layout) ([]string, error) {
	dir := layout.ProfileRegistry()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return nil, nil
		}
		return nil, &staging.IOError{Op: "list profile registry", Path: dir, Err: err}
	}

	type snapshot struct {
		path    string
		modTime time.Time
	}
	snaps := make([]snapshot, 0, len(entries))
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), snapshotSuffix) {
			continue
		}
		s := snapshot{path: filepath.Join(dir, e.Name())}
		if m.retention == RetentionModTime {
			info, err := e.Info()
			if err != nil {
				return nil, &staging.IOError{Op: "inspect profile snapshot", Path: s.path, Err: err}
			}
			s.modTime = info.ModTime()
		}
		snaps = append(snaps, s)
	}

	if m.retention == RetentionModTime {
		slices.SortStableFunc(snaps, func(a, b snapshot) int {
			return a.modTime.Compare(b.modTime)
		})
	} else {
		slices.SortStableFunc(snaps, func(a, b snapshot) int {
			return cmp.Compare(a.path, b.path)
		})
	}

	paths := make([]string, len(snaps))
	for i, s := range snaps {
		paths[i] = s.path
	}
	return paths, nil
}

// Prune deletes every registry snapshot but the last in retention order and
// returns the deleted paths. With one snapshot or none, nothing is deleted.
// The first failed deletion stops pruning.
func (m *Manager) Prune(layout p2.Layout) ([]string, error) {
	if err := m.retention.Validate(); err != nil {
		return nil, err
	}
	snaps, err := m.Snapshots(layout)
	if err != nil {
		return nil, err
	}
	if len(snaps) <= 1 {
		return nil, nil
	}

	var deleted []string
	for _, path := range snaps[:len(snaps)-1] {
		if err := m.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, &staging.IOError{Op: "delete old profile snapshot", Path: path, Err: err}
		}
		deleted = append(deleted, path)
	}
	m.logger.Info("pruned profile registry", "profile", layout.Profile, "deleted", len(deleted), "kept", filepath.Base(snaps[len(snaps)-1]))
	return deleted, nil
}
