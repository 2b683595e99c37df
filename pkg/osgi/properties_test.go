// SPDX-License-Identifier: MPL-2.0

package osgi

import "testing"

func TestExpandProperties(t *testing.T) {
	t.Parallel()

	props := map[string]string{
		"carbon.version": "4.4.0",
		"suffix":         "SNAPSHOT",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no references", "1.0.0", "1.0.0"},
		{"single reference", "${carbon.version}", "4.4.0"},
		{"embedded references", "${carbon.version}-${suffix}", "4.4.0-SNAPSHOT"},
		{"unknown key kept", "${missing}.1", "${missing}.1"},
		{"lone dollar", "1.0$x", "1.0$x"},
		{"double dollar", "$${suffix}", "$SNAPSHOT"},
		{"unterminated", "1.${suffix", "1.${suffix"},
		{"mixed", "v${suffix}-${nope}", "vSNAPSHOT-${nope}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExpandProperties(tt.in, props); got != tt.want {
				t.Errorf("ExpandProperties(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := ExpandProperties("${suffix}", nil); got != "${suffix}" {
		t.Errorf("nil props should leave input unchanged, got %q", got)
	}
}
