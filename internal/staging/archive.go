// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Archive zips the contents of dir into zipPath. Entry names are relative to
// dir, so extracting the archive recreates the repository layout in place.
// A partially written zip is removed on failure.
func (m *Manager) Archive(dir, zipPath string) error {
	m.logger.Info("archiving repository", "dir", dir, "archive", zipPath)
	if err := zipDir(dir, zipPath); err != nil {
		_ = os.Remove(zipPath) // best-effort removal of the partial archive
		return &IOError{Op: "archive repository", Path: dir, Err: err}
	}
	return nil
}

func zipDir(dir, zipPath string) (err error) {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(f)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			_, createErr := zw.Create(name + "/")
			return createErr
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		header, headerErr := zip.FileInfoHeader(info)
		if headerErr != nil {
			return headerErr
		}
		header.Name = name
		header.Method = zip.Deflate

		w, createErr := zw.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("failed to create entry %s: %w", name, createErr)
		}
		return copyInto(w, path)
	})
}

func copyInto(w io.Writer, path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = io.Copy(w, in)
	return err
}
