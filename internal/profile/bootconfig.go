// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DataAreaKey is the boot configuration key for the p2 data area.
	DataAreaKey = "eclipse.p2.data.area"
	// DataAreaValue points the data area at the shared p2 directory relative
	// to the profile's configuration directory, so the installation can be
	// moved as a whole.
	DataAreaValue = "@config.dir/../../p2/"
)

// SetProperty sets key=value in the key=value file at path. Every line
// defining key is replaced in place, together with any continuation lines of
// its old value; if none does, the pair is appended. All other lines are kept
// byte-for-byte, line terminators included. A missing file is created.
func SetProperty(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	eol := "\n"
	if bytes.Contains(data, []byte("\r\n")) {
		eol = "\r\n"
	}

	var out bytes.Buffer
	replaced, continued, dropping := false, false, false
	for _, raw := range splitLines(data) {
		line, term := cutTerminator(raw)
		if term == "" {
			term = eol
		}
		switch {
		case dropping:
			dropping = continues(line)
		case !continued && propertyKey(line) == key:
			out.WriteString(key + "=" + value + term)
			replaced = true
			dropping = continues(line)
		default:
			continued = (continued || propertyKey(line) != "") && continues(line)
			out.WriteString(line + term)
		}
	}
	if !replaced {
		out.WriteString(key + "=" + value + eol)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out.Bytes(), 0o644)
}

// splitLines splits data after each '\n', keeping the terminators. A final
// unterminated line is returned as is.
func splitLines(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	return lines
}

// cutTerminator separates a trailing "\n" or "\r\n" from line.
func cutTerminator(line string) (content, term string) {
	if s, ok := strings.CutSuffix(line, "\r\n"); ok {
		return s, "\r\n"
	}
	if s, ok := strings.CutSuffix(line, "\n"); ok {
		return s, "\n"
	}
	return line, ""
}

// propertyKey returns the key defined by line, or "" for blank and comment
// lines.
func propertyKey(line string) string {
	trimmed := strings.TrimLeft(line, " \t\f")
	if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
		return ""
	}
	end := strings.IndexAny(trimmed, "=: \t")
	if end < 0 {
		return trimmed
	}
	return trimmed[:end]
}

// continues reports whether line ends in an unescaped backslash, which joins
// the next line to it.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
