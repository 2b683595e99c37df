// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractFeature unpacks the feature zip at archive into dir. identity names
// the feature in errors (typically its Maven coordinates).
func (m *Manager) ExtractFeature(archive, dir, identity string) error {
	m.logger.Info("extracting feature", "feature", identity)
	if err := unzip(archive, dir); err != nil {
		return &IOError{Op: "extract feature", Path: archive, Artifact: identity, Err: err}
	}
	return nil
}

func unzip(archive, dir string) (err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, f := range zr.File {
		dest := filepath.Join(absDir, filepath.FromSlash(f.Name))
		rel, relErr := filepath.Rel(absDir, dest)
		if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("entry %q escapes the destination directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := extractEntry(f, dest); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: feature archives come from the build's own resolver
	_, err = io.Copy(out, rc)
	return err
}
