// SPDX-License-Identifier: MPL-2.0

package osgi

import "strings"

type expandState int

const (
	stateNormal expandState = iota
	stateDollar
	stateBracket
)

// ExpandProperties replaces ${key} references in s with props[key].
// References to unknown keys, a lone '$' and an unterminated "${" are kept
// literally.
func ExpandProperties(s string, props map[string]string) string {
	if len(props) == 0 || !strings.Contains(s, "${") {
		return s
	}

	var out strings.Builder
	state := stateNormal
	start := 0 // first byte not yet copied to out
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '$' && state != stateBracket:
			state = stateDollar
		case c == '{' && state == stateDollar:
			out.WriteString(s[start : i-1])
			start = i - 1
			state = stateBracket
		case state == stateDollar:
			state = stateNormal
		case c == '}' && state == stateBracket:
			key := s[start+2 : i]
			if value, ok := props[key]; ok {
				out.WriteString(value)
			} else {
				out.WriteString(s[start : i+1])
			}
			start = i + 1
			state = stateNormal
		}
	}
	out.WriteString(s[start:])
	return out.String()
}
