package fparser

import (
	"strings"
	"testing"
)

func TestFormatItems(t *testing.T) {
	for i, tc := range []struct {
		spec string
		want []string
	}{
		0: {spec: "(I3, F10.2)", want: []string{"I3", "F10.2"}},
		1: {spec: "(2(i3, /), a)", want: []string{"2(I3, /)", "A"}},
		2: {spec: "('x=', 1x, e12.4e2)", want: []string{"'x='", "1X", "E12.4E2"}},
		3: {spec: "(a, 'it''s', \"q\")", want: []string{"A", "'it''s'", `"q"`}},
		4: {spec: "(i5/f3.1)", want: []string{"I5", "/", "F3.1"}},
		5: {spec: "()", want: nil},
	} {
		got, err := formatItems(tc.spec)
		if err != nil {
			t.Errorf("case %d: %v", i, err)
			continue
		}
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestFormatItems_malformed(t *testing.T) {
	for _, spec := range []string{"(I3", "I3)", "(a) extra", "(", "('unterminated)"} {
		if _, err := formatItems(spec); err == nil {
			t.Errorf("%q: expected error", spec)
		}
	}
}
