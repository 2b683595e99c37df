// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:    string & !=""
	count:   int & >=0 | *1
	tags?: [...string]
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantErr    string
		wantName   string
		wantCount  int
		wantTagLen int
	}{
		{name: "defaults applied", data: `name: "a"`, wantName: "a", wantCount: 1},
		{name: "explicit values", data: "name: \"b\"\ncount: 3\ntags: [\"x\", \"y\"]", wantName: "b", wantCount: 3, wantTagLen: 2},
		{name: "empty name rejected", data: `name: ""`, wantErr: "name"},
		{name: "negative count rejected", data: "name: \"c\"\ncount: -1", wantErr: "count"},
		{name: "syntax error", data: `name: "d`, wantErr: "doc.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(tt.data), "#Doc", WithFilename("doc.cue"))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Value.Name != tt.wantName || res.Value.Count != tt.wantCount || len(res.Value.Tags) != tt.wantTagLen {
				t.Errorf("decoded %+v", *res.Value)
			}
		})
	}
}

func TestParseAndDecode_UnknownDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "a"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("expected missing definition error, got %v", err)
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "abcdef"`), "#Doc", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	m, err := DecodeMap([]byte(testSchema), []byte(`name: "m"`), "#Doc", "m.cue")
	if err != nil {
		t.Fatalf("DecodeMap() error = %v", err)
	}
	if m["name"] != "m" {
		t.Errorf("name = %v, want m", m["name"])
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	cause := errors.New("plain failure")
	err := FormatError(cause, "x.cue")
	if !errors.Is(err, cause) {
		t.Error("non-CUE errors should stay wrapped")
	}
	if !strings.HasPrefix(err.Error(), "x.cue: ") {
		t.Errorf("missing filename prefix: %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"features"}, "features"},
		{[]string{"features", "0", "id"}, "features[0].id"},
		{[]string{"a", "1", "2"}, "a[1][2]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.in); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
