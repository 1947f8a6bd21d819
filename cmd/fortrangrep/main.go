// fortrangrep searches the logical lines of Fortran source files. Continued
// statements are matched as one line with the continuations merged, and
// labels and construct names are part of the searched text, so
//
//	fortrangrep -i 'call solve\(a, b\)' *.f90
//
// finds a call even when its arguments are split over several lines.
//
// Usage:
//
//	fortrangrep [flags] pattern file.f90 [file2.f ...]
//
// Output, one logical line per match:
//
//	solver.f90:12-14: call solve(a, b)
//	solver.f90:20: 10 continue
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	fparser "github.com/soypat/go-fparser"
)

var (
	flagIgnoreCase = flag.Bool("i", false, "case-insensitive matching")
	flagInvert     = flag.Bool("v", false, "invert match (show non-matching lines)")
	flagComments   = flag.Bool("comments", false, "search comment lines too")
	flagFilesOnly  = flag.Bool("l", false, "only print filenames with matches")
	flagCount      = flag.Bool("c", false, "only print the number of matching lines per file")
	flagMode       = flag.String("mode", "", "source mode: free, fix, f77 or pyf (default: from extension or content)")
)

func main() {
	flag.Parse()
	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: fortrangrep [flags] pattern file.f90 [file2.f ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	pattern := flag.Arg(0)
	if *flagIgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid pattern: %v\n", err)
		os.Exit(2)
	}
	opt := options{invert: *flagInvert, comments: *flagComments}

	files := flag.Args()[1:]
	exitCode := 1
	for _, filename := range files {
		b, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		src := string(b)
		mode := fparser.ModeForFile(filename, src)
		if *flagMode != "" {
			if mode, err = fparser.ParseMode(*flagMode); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		}
		hits, err := grep(src, mode, re, opt)
		if err != nil {
			// Report what was found before the unreadable line.
			fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		}
		if len(hits) > 0 {
			exitCode = 0
		}
		name := ""
		if len(files) > 1 {
			name = filename
		}
		switch {
		case *flagFilesOnly:
			if len(hits) > 0 {
				fmt.Println(filename)
			}
		case *flagCount:
			if name != "" {
				fmt.Print(name, ":")
			}
			fmt.Println(len(hits))
		default:
			printHits(os.Stdout, name, hits)
		}
	}
	os.Exit(exitCode)
}

type options struct {
	invert   bool // select non-matching lines.
	comments bool // comment lines are searched and printed with a leading '!'.
}

// hit is a matching logical line.
type hit struct {
	line, endLine int
	text          string
}

// grep returns the logical lines of src selected by re. A malformed line
// stops the search; the hits before it are returned with the error.
func grep(src string, mode fparser.Mode, re *regexp.Regexp, opt options) ([]hit, error) {
	var hits []hit
	for ln, err := range fparser.Classify(src, mode) {
		if err != nil {
			return hits, err
		}
		text := ln.Text
		switch ln.Kind {
		case fparser.LineComment:
			if !opt.comments {
				continue
			}
			text = "!" + text
		case fparser.LineStatement:
			if ln.Name != "" {
				text = ln.Name + ": " + text
			}
			if ln.Label != "" {
				text = ln.Label + " " + text
			}
		}
		if re.MatchString(text) != opt.invert {
			hits = append(hits, hit{line: ln.LineNo, endLine: ln.EndLine, text: text})
		}
	}
	return hits, nil
}

func printHits(w io.Writer, filename string, hits []hit) error {
	var buf []byte
	for _, h := range hits {
		buf = buf[:0]
		if filename != "" {
			buf = append(buf, filename...)
			buf = append(buf, ':')
		}
		buf = strconv.AppendInt(buf, int64(h.line), 10)
		if h.endLine > h.line {
			buf = append(buf, '-')
			buf = strconv.AppendInt(buf, int64(h.endLine), 10)
		}
		buf = append(buf, ": "...)
		buf = append(buf, h.text...)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
