// fortranparse parses Fortran source files and prints their canonical
// rendering, a node dump or the nodes of selected kinds.
//
// Usage:
//
//	fortranparse [flags] file.f90 [file2.f ...]
//	fortranparse -i
//
// Output of -kind, one node per line:
//
//	main.f90:12: CALL foo(a, b)
//	main.f90: SIN(x)
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	fparser "github.com/soypat/go-fparser"
	"github.com/soypat/go-fparser/ast"
)

var (
	flagMode     = flag.String("mode", "", "source mode: free, fix, f77 or pyf (default: detect)")
	flagComments = flag.Bool("comments", false, "keep comment lines in the output")
	flagDump     = flag.Bool("dump", false, "dump the syntax tree instead of rendering it")
	flagKind     = flag.String("kind", "", "comma separated node kinds to list, e.g. CallStmt,IntrinsicRef")
	flagVerbose  = flag.Bool("v", false, "log debug diagnostics")
	flagQuiet    = flag.Bool("q", false, "only log errors")
	flagInteract = flag.Bool("i", false, "interactive mode")
)

func main() {
	flag.Parse()
	logger := newLogger()
	if *flagInteract {
		os.Exit(repl(logger))
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: fortranparse [flags] file.f90 [file2.f ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	kinds, err := parseKinds(*flagKind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	exitCode := 0
	for _, filename := range flag.Args() {
		if err := processFile(filename, logger, kinds); err != nil {
			fmt.Fprintf(os.Stderr, "error processing %s: %v\n", filename, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case *flagVerbose:
		level = slog.LevelDebug
	case *flagQuiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: dropTime(fparser.ReplaceLevel),
	}))
}

func dropTime(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return next(groups, a)
	}
}

func parseKinds(s string) ([]ast.Kind, error) {
	if s == "" {
		return nil, nil
	}
	var kinds []ast.Kind
	for _, name := range strings.Split(s, ",") {
		k, ok := ast.LookupKind(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown node kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// fileMode picks the mode from the -mode flag, the file extension or the
// content, in that order.
func fileMode(filename, src string) (fparser.Mode, error) {
	if *flagMode != "" {
		return fparser.ParseMode(*flagMode)
	}
	return fparser.ModeForFile(filename, src), nil
}

func processFile(filename string, logger *slog.Logger, kinds []ast.Kind) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	src := string(b)
	mode, err := fileMode(filename, src)
	if err != nil {
		return err
	}
	file, err := fparser.Parse(src, fparser.Options{
		Mode:         mode,
		Logger:       logger.With(slog.String("file", filename)),
		Source:       filename,
		KeepComments: *flagComments,
	})
	if err != nil {
		return err
	}
	return printFile(os.Stdout, file, kinds)
}

func printFile(w io.Writer, file *ast.File, kinds []ast.Kind) error {
	switch {
	case len(kinds) > 0:
		for _, n := range ast.Collect(file, kinds...) {
			var prefix string
			if st, ok := n.(ast.Statement); ok {
				prefix = fmt.Sprintf("%s:%d: ", file.Source, st.Info().Source.Line)
			} else {
				prefix = file.Source + ": "
			}
			text := ast.Render(n)
			if _, isBlock := n.(*ast.Block); isBlock {
				if i := strings.IndexByte(text, '\n'); i >= 0 {
					text = text[:i]
				}
			}
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, text); err != nil {
				return err
			}
		}
		return nil
	case *flagDump:
		if err := ast.Fprint(w, file, ast.NotNilFilter); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", file.AppendString(nil))
	return err
}

const (
	historyFile = ".fortranparse_history"
	promptMain  = "f> "
	promptCont  = ".. "
)

// repl reads free-form statements interactively. Input accumulates until
// every opened block is closed, then the whole snippet is parsed.
func repl(logger *slog.Logger) int {
	mode := fparser.ModeFree
	if *flagMode != "" {
		m, err := fparser.ParseMode(*flagMode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		mode = m
	}
	kinds, err := parseKinds(*flagKind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	opts := fparser.Options{Mode: mode, Logger: logger, Source: "<stdin>", KeepComments: *flagComments}
	for {
		file, src, err := readUntilClosed(ln, opts)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if err := printFile(os.Stdout, file, kinds); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func readUntilClosed(ln *liner.State, opts fparser.Options) (*ast.File, string, error) {
	var b strings.Builder
	quiet := opts
	quiet.Logger = slog.New(slog.DiscardHandler)
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			return nil, "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		_, err = fparser.Parse(src, quiet)
		var ube *fparser.UnterminatedBlockError
		if errors.As(err, &ube) {
			continue
		}
		// Parse again to log the diagnostics once.
		file, err := fparser.Parse(src, opts)
		return file, src, err
	}
}
