// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyBundle copies file into pluginsDir under its own name, creating
// pluginsDir on first use.
func (m *Manager) CopyBundle(file, pluginsDir, identity string) error {
	m.logger.Info("copying bundle", "bundle", identity)
	if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
		return &IOError{Op: "copy bundle", Path: pluginsDir, Artifact: identity, Err: err}
	}
	if err := copyFile(file, filepath.Join(pluginsDir, filepath.Base(file))); err != nil {
		return &IOError{Op: "copy bundle", Path: file, Artifact: identity, Err: err}
	}
	return nil
}

// CopyResources merges each resource directory into dir. Directories that do
// not exist are skipped. It returns the directories actually copied.
func (m *Manager) CopyResources(resourceDirs []string, dir string) ([]string, error) {
	var copied []string
	for _, src := range resourceDirs {
		info, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("skipping missing resource directory", "dir", src)
			continue
		}
		if err != nil {
			return copied, &IOError{Op: "copy resources", Path: src, Err: err}
		}
		if !info.IsDir() {
			return copied, &IOError{Op: "copy resources", Path: src, Err: fmt.Errorf("not a directory")}
		}

		m.logger.Info("copying resources", "dir", src)
		if err := copyDir(src, dir); err != nil {
			return copied, &IOError{Op: "copy resources", Path: src, Err: err}
		}
		copied = append(copied, src)
	}
	return copied, nil
}

// RemoveDir deletes dir and everything below it.
func (m *Manager) RemoveDir(dir string) error {
	if err := m.removeAll(dir); err != nil {
		return &IOError{Op: "remove directory", Path: dir, Err: err}
	}
	return nil
}

// copyDir merges src into dst. Symlinks are skipped.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
