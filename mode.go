package fparser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the source form and how forgiving the line classifier and
// statement matcher are.
type Mode struct {
	// Free selects free-form source. Fixed-form otherwise.
	Free bool
	// Strict disables the lenient legacy repairs: column-lenient fixed-form
	// reading and the inline comment retry of the statement matcher.
	Strict bool
}

// Named modes.
var (
	ModeFree = Mode{Free: true}               // free-form, lenient.
	ModeFix  = Mode{}                         // fixed-form, lenient.
	ModeF77  = Mode{Strict: true}             // fixed-form, strict.
	ModePyf  = Mode{Free: true, Strict: true} // free-form, strict. Used to re-parse rendered output.
)

func (m Mode) String() string {
	switch m {
	case ModeFree:
		return "free"
	case ModeFix:
		return "fix"
	case ModeF77:
		return "f77"
	default:
		return "pyf"
	}
}

// ParseMode returns the mode named s: free, fix, f77 or pyf.
// f90 is accepted as an alias of free.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free", "f90":
		return ModeFree, nil
	case "fix":
		return ModeFix, nil
	case "f77":
		return ModeF77, nil
	case "pyf":
		return ModePyf, nil
	}
	return Mode{}, fmt.Errorf("unknown source mode %q", s)
}

// ModeForFile picks the mode of a source file by extension: .f, .for, .ftn
// and .f77 are fixed form, .pyf is pyf. Other files use [DetectMode].
func ModeForFile(filename, src string) Mode {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".f", ".for", ".ftn", ".f77":
		return ModeFix
	case ".pyf":
		return ModePyf
	}
	return DetectMode(src)
}

// DetectMode guesses the source form of src. A "-*- fix -*-" style header
// on the first line wins, otherwise the first line carrying fixed-form or
// free-form evidence decides. The default is free-form.
func DetectMode(src string) Mode {
	lines := strings.SplitN(src, "\n", 200)
	if len(lines) > 0 {
		if m, ok := headerMode(lines[0]); ok {
			return m
		}
	}
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		switch c := line[0]; {
		case c == '!':
			continue
		case c == '*' || ((c == 'c' || c == 'C') && (len(line) == 1 || !isNameByte(line[1]) && !strings.Contains(line, "="))):
			return ModeFix
		case c == '\t':
			return ModeFix
		}
		if strings.HasSuffix(line, "&") {
			return ModeFree
		}
		if fixedEvidence(line) {
			return ModeFix
		}
		if i := strings.IndexFunc(line, func(r rune) bool { return r != ' ' }); i >= 0 && i < 5 && isLetter(line[i]) {
			return ModeFree
		}
	}
	return ModeFree
}

// fixedEvidence reports a label field followed by a statement at column 7
// or a continuation marker in column 6.
func fixedEvidence(line string) bool {
	if len(line) < 7 {
		return false
	}
	for i := 0; i < 5; i++ {
		if line[i] != ' ' && !isDigit(line[i]) {
			return false
		}
	}
	return line[5] != ' ' || line[6] != ' '
}

func headerMode(line string) (Mode, bool) {
	i := strings.Index(line, "-*-")
	if i < 0 {
		return Mode{}, false
	}
	rest := line[i+3:]
	j := strings.Index(rest, "-*-")
	if j < 0 {
		return Mode{}, false
	}
	m, err := ParseMode(rest[:j])
	return m, err == nil
}
