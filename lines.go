package fparser

import (
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// LineKind classifies a logical line.
type LineKind uint8

const (
	LineStatement LineKind = iota
	LineComment
	LineDirective
)

// Fragment maps the text of a logical line starting at Offset back to the
// physical line and column it was read from.
type Fragment struct {
	Offset int
	Line   int
	Col    int
}

// Line is one logical line: a statement after continuation merging, a
// comment line or a preprocessor directive.
type Line struct {
	Kind LineKind
	// Text is the statement without label and construct name. For comment
	// lines it is the text following the comment character.
	Text string
	// Label is the statement label, if any.
	Label string
	// Name is the construct name of a "name: DO ..." statement.
	Name string
	// Comment is a trailing inline comment which is still part of Text.
	// Only fixed-form lines keep such comments, since "!" comments are not
	// Fortran 77.
	Comment string
	Source  string
	LineNo  int // 1-based first physical line.
	Col     int // 1-based column of the first character of Text.
	EndLine int // last physical line.
	Mode    Mode
	// Fragments maps offsets of Text to physical positions, one entry per
	// contributing physical line.
	Fragments []Fragment
}

// Pos returns the physical line and column of Text[offset].
func (ln *Line) Pos(offset int) (line, col int) {
	line, col = ln.LineNo, ln.Col+offset
	for _, f := range ln.Fragments {
		if f.Offset > offset {
			break
		}
		line, col = f.Line, f.Col+offset-f.Offset
	}
	return line, col
}

// WithoutComment returns Text with the trailing inline comment removed.
func (ln *Line) WithoutComment() string {
	if ln.Comment == "" {
		return ln.Text
	}
	return strings.TrimSpace(strings.TrimSuffix(ln.Text, ln.Comment))
}

func (ln Line) String() string {
	var b []byte
	b = append(b, "line #"...)
	b = strconv.AppendInt(b, int64(ln.LineNo), 10)
	if ln.Label != "" {
		b = append(b, ' ')
		b = append(b, ln.Label...)
	}
	if ln.Name != "" {
		b = append(b, ' ')
		b = append(b, ln.Name...)
		b = append(b, ':')
	}
	b = append(b, ' ')
	b = strconv.AppendQuote(b, ln.Text)
	return string(b)
}

// Classify returns the logical lines of src read in mode. Iteration stops
// after the first error.
func Classify(src string, mode Mode) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		var lr LineReader
		lr.reset("", src, mode, reporter{})
		for {
			ln, err := lr.Next()
			if err == io.EOF {
				return
			}
			if !yield(ln, err) || err != nil {
				return
			}
		}
	}
}

// LineReader reads logical lines from source text on demand.
type LineReader struct {
	source string
	mode   Mode
	phys   []string
	next   int // index of the next unread physical line.
	queue  []Line
	rep    reporter
	err    error
}

// Reset discards all state and starts reading src. Warnings about repaired
// lines are logged to logger, which may be nil.
func (lr *LineReader) Reset(source, src string, mode Mode, logger *slog.Logger) {
	lr.reset(source, src, mode, reporter{L: logger}.with("lines"))
}

func (lr *LineReader) reset(source, src string, mode Mode, rep reporter) {
	phys := strings.Split(src, "\n")
	for i, p := range phys {
		phys[i] = strings.TrimSuffix(p, "\r")
	}
	if n := len(phys); n > 0 && phys[n-1] == "" {
		phys = phys[:n-1]
	}
	*lr = LineReader{
		source: source,
		mode:   mode,
		phys:   phys,
		queue:  lr.queue[:0],
		rep:    rep,
	}
}

// Mode returns the current reading mode. Lenient fixed-form reading may
// switch to free-form on malformed label fields.
func (lr *LineReader) Mode() Mode { return lr.mode }

// Next returns the next logical line or io.EOF when input is exhausted.
func (lr *LineReader) Next() (Line, error) {
	for {
		if len(lr.queue) > 0 {
			ln := lr.queue[0]
			lr.queue = lr.queue[1:]
			return ln, nil
		}
		if lr.err != nil {
			return Line{}, lr.err
		}
		if lr.next >= len(lr.phys) {
			return Line{}, io.EOF
		}
		var err error
		if lr.mode.Free {
			err = lr.readFree()
		} else {
			err = lr.readFixed()
		}
		if err != nil {
			lr.err = err
		}
	}
}

// PutBack makes ln the next line returned by Next.
func (lr *LineReader) PutBack(ln Line) {
	lr.queue = append([]Line{ln}, lr.queue...)
}

// stmtBuilder accumulates the fragments of one logical statement.
type stmtBuilder struct {
	text  []byte
	frags []Fragment
}

func (sb *stmtBuilder) add(s string, line, col int) {
	if s == "" {
		return
	}
	if len(sb.text) == 0 {
		trimmed := strings.TrimLeft(s, " \t")
		col += len(s) - len(trimmed)
		s = trimmed
		if s == "" {
			return
		}
	}
	sb.frags = append(sb.frags, Fragment{Offset: len(sb.text), Line: line, Col: col})
	sb.text = append(sb.text, s...)
}

func (sb *stmtBuilder) empty() bool { return strings.TrimSpace(string(sb.text)) == "" }

// build makes the logical line, splitting off a free-form label when
// freeLabel is set and a construct name in every mode.
func (lr *LineReader) build(sb *stmtBuilder, label string, freeLabel bool) Line {
	text := strings.TrimRight(string(sb.text), " \t")
	cut := 0
	if freeLabel {
		i := 0
		for i < len(text) && i < 5 && isDigit(text[i]) {
			i++
		}
		if i > 0 && i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			label = text[:i]
			cut = i
		}
	}
	rest := strings.TrimLeft(text[cut:], " \t")
	cut = len(text) - len(rest)
	name := ""
	if n, after, ok := constructPrefix(rest); ok {
		name = n
		cut += len(rest) - len(after)
		rest = after
	}
	ln := Line{
		Kind:   LineStatement,
		Text:   rest,
		Label:  strings.TrimLeft(label, "0"),
		Name:   name,
		Source: lr.source,
		Mode:   lr.mode,
	}
	if label != "" && ln.Label == "" {
		ln.Label = "0"
	}
	for i, f := range sb.frags {
		end := len(sb.text)
		if i+1 < len(sb.frags) {
			end = sb.frags[i+1].Offset
		}
		if end <= cut {
			continue
		}
		if f.Offset < cut {
			f.Col += cut - f.Offset
			f.Offset = cut
		}
		f.Offset -= cut
		ln.Fragments = append(ln.Fragments, f)
	}
	if len(ln.Fragments) > 0 {
		ln.LineNo, ln.Col = ln.Fragments[0].Line, ln.Fragments[0].Col
		ln.EndLine = ln.Fragments[len(ln.Fragments)-1].Line
	}
	return ln
}

// constructPrefix splits "name: rest" where the colon is not part of "::".
func constructPrefix(s string) (name, rest string, ok bool) {
	if s == "" || !isLetter(s[0]) {
		return "", s, false
	}
	i := 1
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	j := i
	for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
		j++
	}
	if j >= len(s) || s[j] != ':' || (j+1 < len(s) && s[j+1] == ':') {
		return "", s, false
	}
	rest = strings.TrimSpace(s[j+1:])
	if rest == "" {
		return "", s, false
	}
	return s[:i], rest, true
}

func (lr *LineReader) comment(text string, lineNo, col int) Line {
	return Line{
		Kind: LineComment, Text: text, Source: lr.source, Mode: lr.mode,
		LineNo: lineNo, Col: col, EndLine: lineNo,
	}
}

// directive reads a preprocessor line starting at physical line index i,
// joining backslash continued lines.
func (lr *LineReader) directive(i int) Line {
	text := strings.TrimSpace(lr.phys[i])
	lr.next = i + 1
	for strings.HasSuffix(text, `\`) && lr.next < len(lr.phys) {
		text = strings.TrimSpace(strings.TrimSuffix(text, `\`)) + " " + strings.TrimSpace(lr.phys[lr.next])
		lr.next++
	}
	return Line{
		Kind: LineDirective, Text: text, Source: lr.source, Mode: lr.mode,
		LineNo: i + 1, Col: strings.IndexByte(lr.phys[i], '#') + 1, EndLine: lr.next,
	}
}

func (lr *LineReader) malformed(lineNo int, msg string) error {
	return &MalformedLineError{
		sp:   sourcePos{Source: lr.source, Line: lineNo},
		Text: lr.phys[lineNo-1],
		Msg:  msg,
	}
}

func (lr *LineReader) warn(level slog.Level, lineNo int, msg string) {
	lr.rep.report(level, lr.source, lineNo, 0, lr.phys[lineNo-1], msg)
}

func quoteMessage(quote byte) string {
	return "following character continuation: '" + string(quote) + "', expected None."
}

// ==================== FREE FORM ====================

func (lr *LineReader) readFree() error {
	i := lr.next
	raw := lr.phys[i]
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		lr.next++
		return nil
	case trimmed[0] == '!':
		lr.next++
		lr.queue = append(lr.queue, lr.comment(strings.TrimLeft(raw, " \t")[1:], i+1, strings.IndexByte(raw, '!')+1))
		return nil
	case trimmed[0] == '#':
		lr.queue = append(lr.queue, lr.directive(i))
		return nil
	}
	lr.next++

	var (
		sb        stmtBuilder
		quote     byte
		lineNo    = i + 1
		start     = len(raw) - len(strings.TrimLeft(raw, " \t"))
		continued = false
		comments  []Line
	)
	if raw[start] == '&' {
		if lr.mode.Strict {
			return lr.malformed(lineNo, "continuation character '&' without a statement to continue")
		}
		lr.warn(slog.LevelWarn, lineNo, "continuation character '&' without a statement to continue, ignoring it")
		start++
	}
	for {
		seg := start
		continued = false
	scan:
		for j := start; j < len(raw); j++ {
			c := raw[j]
			if quote != 0 {
				switch {
				case c == quote && j+1 < len(raw) && raw[j+1] == quote:
					j++
				case c == quote:
					quote = 0
				case c == '&' && strings.TrimSpace(raw[j+1:]) == "":
					sb.add(raw[seg:j], lineNo, seg+1)
					continued = true
					break scan
				}
				continue
			}
			switch c {
			case '\'', '"':
				quote = c
			case '!':
				sb.add(raw[seg:j], lineNo, seg+1)
				comments = append(comments, lr.comment(raw[j+1:], lineNo, j+1))
				seg = len(raw)
				break scan
			case ';':
				sb.add(raw[seg:j], lineNo, seg+1)
				if !sb.empty() {
					lr.queue = append(lr.queue, lr.build(&sb, "", true))
				}
				sb = stmtBuilder{}
				seg = j + 1
			case '&':
				rest := strings.TrimSpace(raw[j+1:])
				if rest == "" || rest[0] == '!' {
					sb.add(raw[seg:j], lineNo, seg+1)
					if rest != "" {
						comments = append(comments, lr.comment(rest[1:], lineNo, strings.IndexByte(raw[j:], '!')+j+1))
					}
					continued = true
					seg = len(raw)
					break scan
				}
			}
		}
		if !continued && seg < len(raw) {
			sb.add(raw[seg:], lineNo, seg+1)
		}
		if !continued {
			break
		}
		// Find the continuation line, skipping blank and comment lines.
		for lr.next < len(lr.phys) {
			t := strings.TrimSpace(lr.phys[lr.next])
			if t != "" && t[0] != '!' {
				break
			}
			if t != "" {
				comments = append(comments, lr.comment(strings.TrimLeft(lr.phys[lr.next], " \t")[1:], lr.next+1, 1))
			}
			lr.next++
		}
		if lr.next >= len(lr.phys) {
			if lr.mode.Strict {
				return lr.malformed(lineNo, "line continuation character '&' at end of input")
			}
			lr.warn(slog.LevelWarn, lineNo, "line continuation character '&' at end of input, ignoring it")
			break
		}
		raw = lr.phys[lr.next]
		lr.next++
		lineNo = lr.next
		start = 0
		if k := strings.IndexFunc(raw, func(r rune) bool { return r != ' ' && r != '\t' }); k >= 0 {
			if raw[k] == '&' {
				start = k + 1
			} else if quote == 0 {
				start = k
			}
		}
	}
	if quote != 0 {
		if lr.mode.Strict {
			return lr.malformed(lineNo, quoteMessage(quote))
		}
		lr.warn(slog.LevelError, lineNo, quoteMessage(quote))
	}
	if !sb.empty() {
		lr.queue = append(lr.queue, lr.build(&sb, "", true))
	}
	lr.queue = append(lr.queue, comments...)
	return nil
}

// ==================== FIXED FORM ====================

// fixedLine is a physical fixed-form line split into its fields.
type fixedLine struct {
	label   string
	cont    bool
	content string
	col     int // 1-based column of content[0].
}

// splitFixed splits a physical line. ok is false for blank and comment
// lines, whose comment text is then returned in content.
func (lr *LineReader) splitFixed(raw string) (fl fixedLine, comment bool) {
	if lr.mode.Strict && len(raw) > 72 {
		raw = raw[:72]
	}
	if k := strings.IndexByte(raw, '\t'); k >= 0 && k < 6 && isDigits(strings.TrimSpace(raw[:k])+"0") {
		// Tab formatted line: label, tab, optional continuation digit.
		fl.label = strings.TrimSpace(raw[:k])
		fl.content, fl.col = raw[k+1:], k+2
		if fl.content != "" && fl.content[0] >= '1' && fl.content[0] <= '9' {
			fl.cont = true
			fl.content, fl.col = fl.content[1:], fl.col+1
		}
		return fl, false
	}
	if len(raw) > 5 && raw[5] != ' ' && raw[5] != '0' {
		fl.cont = true
	}
	fl.label = strings.TrimSpace(raw[:min(5, len(raw))])
	if len(raw) > 6 {
		fl.content, fl.col = raw[6:], 7
	}
	if !fl.cont && fl.label == "" && strings.HasPrefix(strings.TrimSpace(fl.content), "!") {
		return fixedLine{content: strings.TrimSpace(fl.content)[1:]}, true
	}
	return fl, false
}

func (lr *LineReader) readFixed() error {
	i := lr.next
	raw := lr.phys[i]
	lineNo := i + 1
	if strings.TrimSpace(raw) == "" {
		lr.next++
		return nil
	}
	switch c := raw[0]; {
	case c == 'c' || c == 'C' || c == '*' || c == '!':
		lr.next++
		lr.queue = append(lr.queue, lr.comment(raw[1:], lineNo, 1))
		return nil
	case c == '#':
		lr.queue = append(lr.queue, lr.directive(i))
		return nil
	case c != ' ' && c != '\t' && !isDigit(c):
		lr.next++
		lr.warn(slog.LevelWarn, lineNo, "non-space/digit char '"+string(c)+"' found in column 1 of fixed Fortran code, interpreting line as comment line")
		lr.queue = append(lr.queue, lr.comment(raw[1:], lineNo, 1))
		return nil
	}
	for col := 1; col < 5 && col < len(raw); col++ {
		c := raw[col]
		if c == '\t' {
			break
		}
		if c != ' ' && !isDigit(c) {
			msg := "non-space/digit char '" + string(c) + "' found in column " + strconv.Itoa(col+1) + " of fixed Fortran code"
			if lr.mode.Strict {
				return lr.malformed(lineNo, msg)
			}
			lr.warn(slog.LevelWarn, lineNo, msg+", switching to free format mode")
			lr.mode.Free = true
			return nil
		}
	}
	lr.next++
	fl, isComment := lr.splitFixed(raw)
	if isComment {
		lr.queue = append(lr.queue, lr.comment(fl.content, lineNo, 7))
		return nil
	}
	if fl.cont {
		msg := "continuation line without a statement to continue"
		if lr.mode.Strict {
			return lr.malformed(lineNo, msg)
		}
		lr.warn(slog.LevelWarn, lineNo, msg+", reading it as a new statement")
	}

	var (
		sb       stmtBuilder
		quote    byte
		comment  string
		comments []Line
		lastLine = lineNo
	)
	// addContent appends one physical line's statement text and reports
	// whether it ends with a free-form '&'.
	addContent := func(content string, lineNo, col int) (amp bool) {
		comment = ""
		end := len(content)
		for j := 0; j < len(content); j++ {
			c := content[j]
			if quote != 0 {
				if c == quote {
					if j+1 < len(content) && content[j+1] == quote {
						j++
						continue
					}
					quote = 0
				}
				continue
			}
			switch c {
			case '\'', '"':
				quote = c
			case '!':
				comment = strings.TrimRight(content[j:], " \t")
				end = j
				j = len(content)
			}
		}
		body := strings.TrimRight(content[:end], " \t")
		if !lr.mode.Strict && quote == 0 && strings.HasSuffix(body, "&") {
			amp = true
			body = strings.TrimRight(body[:len(body)-1], " \t")
		}
		sb.add(body, lineNo, col)
		if comment != "" {
			comments = append(comments, lr.comment(comment[1:], lineNo, col+end+1))
		}
		return amp
	}
	amp := addContent(fl.content, lineNo, fl.col)
	for lr.next < len(lr.phys) {
		next := lr.phys[lr.next]
		if strings.TrimSpace(next) == "" {
			break
		}
		if amp {
			lr.warn(slog.LevelWarn, lastLine, "free format line continuation character `&' detected in fix format code")
			k := len(next) - len(strings.TrimLeft(next, " \t"))
			col := k + 1
			t := next[k:]
			if strings.HasPrefix(t, "&") {
				t, col = t[1:], col+1
			} else if len(next) > 5 && next[5] != ' ' && next[5] != '0' && k == 5 {
				t, col = next[6:], 7
			}
			lr.next++
			lastLine = lr.next
			amp = addContent(t, lastLine, col)
			continue
		}
		if c := next[0]; c == 'c' || c == 'C' || c == '*' || c == '!' || c == '#' || !(c == ' ' || c == '\t' || isDigit(c)) {
			break
		}
		nfl, isComment := lr.splitFixed(next)
		if isComment || !nfl.cont {
			break
		}
		lr.next++
		lastLine = lr.next
		amp = addContent(nfl.content, lastLine, nfl.col)
	}
	if quote != 0 {
		if lr.mode.Strict {
			return lr.malformed(lastLine, quoteMessage(quote))
		}
		lr.warn(slog.LevelWarn, lastLine, quoteMessage(quote))
	}
	if sb.empty() {
		lr.queue = append(lr.queue, comments...)
		return nil
	}
	// Earlier inline comments are dropped from the text; the last one stays
	// so the matcher can retry without it.
	ln := lr.build(&sb, fl.label, false)
	if comment != "" {
		ln.Text += " " + comment
		ln.Comment = comment
		comments = comments[:len(comments)-1]
	}
	lr.queue = append(lr.queue, ln)
	lr.queue = append(lr.queue, comments...)
	return nil
}
