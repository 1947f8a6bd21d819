package ast

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
)

// A FieldFilter is used to filter fields when printing AST nodes.
// If it returns false, the field is excluded from the output.
type FieldFilter func(name string, value reflect.Value) bool

// NotNilFilter returns true for all fields that are not nil or zero-value.
// It excludes nil pointers, slices and interfaces, false bools and empty strings.
func NotNilFilter(_ string, v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return !v.IsNil()
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.Len() > 0
	}
	return true
}

// Fprint writes an indented dump of the tree rooted at x to w.
// Every node prints its Go type and Kind on its first line. Statements add
// their provenance there: @line:col (or @line:col-endline for continued
// statements), the label and the construct name. The variant tag and the
// embedded StmtInfo are therefore not repeated as fields.
// If a non-nil FieldFilter f is provided, only fields for which f returns true are printed.
func Fprint(w io.Writer, x any, f FieldFilter) error {
	p := printer{filter: f, seen: make(map[any]int)}
	p.value(reflect.ValueOf(x))
	_, err := w.Write(p.buf)
	return err
}

// Print calls Fprint(os.Stdout, x, NotNilFilter) for debugging convenience.
func Print(x any) error {
	return Fprint(os.Stdout, x, NotNilFilter)
}

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	kindType     = reflect.TypeFor[Kind]()
	infoType     = reflect.TypeFor[StmtInfo]()
)

type printer struct {
	buf    []byte
	filter FieldFilter
	seen   map[any]int // node pointer to its number in visiting order.
	indent int
}

func (p *printer) value(v reflect.Value) {
	if !v.IsValid() {
		p.buf = append(p.buf, "nil"...)
		return
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			p.buf = append(p.buf, "nil"...)
			return
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			p.buf = append(p.buf, "nil"...)
			return
		}
		ptr := v.Interface()
		if n, ok := p.seen[ptr]; ok {
			p.buf = append(p.buf, "(node #"...)
			p.buf = strconv.AppendInt(p.buf, int64(n), 10)
			p.buf = append(p.buf, ')')
			return
		}
		p.seen[ptr] = len(p.seen)
		v = v.Elem()
		if n, ok := ptr.(Node); ok && v.Kind() == reflect.Struct {
			p.node(n, v)
			return
		}
	}

	t := v.Type()
	if v.Kind() != reflect.Struct && t.Implements(stringerType) {
		// Kinds and tokens print by name.
		p.buf = append(p.buf, v.Interface().(fmt.Stringer).String()...)
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		p.buf = append(p.buf, t.Name()...)
		p.fields(v, false)
	case reflect.Slice, reflect.Array:
		p.list(v)
	case reflect.String:
		p.buf = strconv.AppendQuote(p.buf, v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.buf = strconv.AppendInt(p.buf, v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		p.buf = strconv.AppendUint(p.buf, v.Uint(), 10)
	case reflect.Bool:
		p.buf = strconv.AppendBool(p.buf, v.Bool())
	case reflect.Float32, reflect.Float64:
		p.buf = strconv.AppendFloat(p.buf, v.Float(), 'g', -1, 64)
	default:
		p.buf = fmt.Appendf(p.buf, "%v", v.Interface())
	}
}

// node prints the header line of a node followed by its fields.
func (p *printer) node(n Node, v reflect.Value) {
	name := v.Type().Name()
	p.buf = append(p.buf, name...)
	if kind := n.Kind().String(); kind != name {
		p.buf = append(p.buf, ' ')
		p.buf = append(p.buf, kind...)
	}
	if st, ok := n.(Statement); ok {
		p.buf = appendInfo(p.buf, st.Info())
	}
	p.fields(v, true)
}

func appendInfo(dst []byte, info *StmtInfo) []byte {
	if src := info.Source; src.Line > 0 {
		dst = append(dst, " @"...)
		dst = strconv.AppendInt(dst, int64(src.Line), 10)
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, int64(src.Col), 10)
		if src.EndLine > src.Line {
			dst = append(dst, '-')
			dst = strconv.AppendInt(dst, int64(src.EndLine), 10)
		}
	}
	if info.Label != "" {
		dst = append(dst, " label="...)
		dst = append(dst, info.Label...)
	}
	if info.ConstructName != "" {
		dst = append(dst, " name="...)
		dst = append(dst, info.ConstructName...)
	}
	return dst
}

// fields prints the exported fields of struct v between braces. Node
// variant tags and statement info are part of the header.
func (p *printer) fields(v reflect.Value, isNode bool) {
	t := v.Type()
	start := len(p.buf)
	p.buf = append(p.buf, " {\n"...)
	p.indent++
	printed := false
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if isNode && (field.Type == kindType || field.Anonymous && field.Type == infoType) {
			continue
		}
		fv := v.Field(i)
		if p.filter != nil && !p.filter(field.Name, fv) {
			continue
		}
		printed = true
		p.writeIndent()
		p.buf = append(p.buf, field.Name...)
		p.buf = append(p.buf, ": "...)
		p.value(fv)
		p.buf = append(p.buf, '\n')
	}
	p.indent--
	if !printed {
		p.buf = append(p.buf[:start], " {}"...)
		return
	}
	p.writeIndent()
	p.buf = append(p.buf, '}')
}

func (p *printer) list(v reflect.Value) {
	if v.Kind() == reflect.Slice && v.IsNil() || v.Len() == 0 {
		p.buf = append(p.buf, "[]"...)
		return
	}
	p.buf = append(p.buf, "[\n"...)
	p.indent++
	for i := range v.Len() {
		p.writeIndent()
		p.buf = strconv.AppendInt(p.buf, int64(i), 10)
		p.buf = append(p.buf, ": "...)
		p.value(v.Index(i))
		p.buf = append(p.buf, '\n')
	}
	p.indent--
	p.writeIndent()
	p.buf = append(p.buf, ']')
}

func (p *printer) writeIndent() {
	p.buf = writeIndent(p.buf, p.indent)
}
