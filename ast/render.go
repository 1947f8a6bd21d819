package ast

// indentWidth is the number of spaces per nesting level in rendered output.
const indentWidth = 2

// Render returns the canonical Fortran text of node. Statements are
// prefixed with their label and construct name, blocks span several lines
// with nested statements indented.
func Render(node Node) string {
	if s, ok := node.(Statement); ok {
		return string(appendStatement(nil, s, 0))
	}
	return string(node.AppendString(nil))
}

func appendStatement(dst []byte, s Statement, indent int) []byte {
	if b, ok := s.(*Block); ok {
		return appendBlock(dst, b, indent)
	}
	return appendLine(dst, s, indent)
}

// appendLine renders a single statement line: indentation, label, construct name, text.
func appendLine(dst []byte, s Statement, indent int) []byte {
	if s.Kind() == KindDirective {
		indent = 0 // preprocessor lines must start at column 1.
	}
	dst = writeIndent(dst, indent)
	info := s.Info()
	if info.Label != "" {
		dst = append(dst, info.Label...)
		dst = append(dst, ' ')
	}
	if info.ConstructName != "" {
		dst = append(dst, info.ConstructName...)
		dst = append(dst, ": "...)
	}
	return s.AppendString(dst)
}

func appendBlock(dst []byte, b *Block, indent int) []byte {
	inner := indent + 1
	first := true
	if b.Begin != nil {
		dst = appendLine(dst, b.Begin, indent)
		first = false
	} else {
		inner = indent
	}
	for _, s := range b.Body {
		if !first {
			dst = append(dst, '\n')
		}
		first = false
		if s.Kind().isMiddle() {
			dst = appendLine(dst, s, indent)
			continue
		}
		dst = appendStatement(dst, s, inner)
	}
	if b.End != nil {
		if !first {
			dst = append(dst, '\n')
		}
		dst = appendLine(dst, b.End, indent)
	}
	return dst
}

func writeIndent(dst []byte, indent int) []byte {
	for i := 0; i < indent*indentWidth; i++ {
		dst = append(dst, ' ')
	}
	return dst
}
