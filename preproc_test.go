package fparser

import "testing"

func TestParseDirective(t *testing.T) {
	for i, tc := range []struct {
		text     string
		name     string
		args     string
		rendered string
	}{
		0: {text: "#  define  X   1", name: "define", args: "X 1", rendered: "#define X 1"},
		1: {text: `#include "a  b.h"`, name: "include", args: `"a  b.h"`, rendered: `#include "a  b.h"`},
		2: {text: "#IFDEF DEBUG", name: "ifdef", args: "DEBUG", rendered: "#ifdef DEBUG"},
		3: {text: "#endif", name: "endif", args: "", rendered: "#endif"},
		4: {text: "# if defined(X) && Y > 2", name: "if", args: "defined(X) && Y > 2", rendered: "#if defined(X) && Y > 2"},
		5: {text: "#MyThing  keep   this", name: "MyThing", args: "keep   this", rendered: "#MyThing keep   this"},
	} {
		d := parseDirective(tc.text)
		if d.Name != tc.name || d.Args != tc.args {
			t.Errorf("case %d: got name %q args %q, want %q %q", i, d.Name, d.Args, tc.name, tc.args)
		}
		if got := string(d.AppendString(nil)); got != tc.rendered {
			t.Errorf("case %d: got %q, want %q", i, got, tc.rendered)
		}
	}
}
