package fparser

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/soypat/go-fparser/ast"
)

// Class is a bit set of statement classes. A rule applies inside a
// construct when their classes intersect.
type Class uint16

const (
	ClassUnit          Class = 1 << iota // PROGRAM, MODULE, BLOCK DATA.
	ClassProcedure                       // SUBROUTINE, FUNCTION.
	ClassSpec                            // specification statements.
	ClassExec                            // executable statements and constructs.
	ClassComponent                       // derived type component definitions.
	ClassBinding                         // type-bound procedure statements.
	ClassInterfaceItem                   // MODULE PROCEDURE in interface blocks.
	ClassEnum                            // ENUMERATOR.

	ClassAny Class = 1<<iota - 1
)

// Rule is a statement grammar rule: an anchored, case-insensitive pattern and
// the constructor of the statement it matches.
type Rule struct {
	Name string
	// Class selects the constructs the rule applies in.
	Class Class
	// Pattern is a Go regular expression. It is anchored at both ends and
	// matched case-insensitively against the statement text with string
	// literal contents masked. Named groups are read with [Match.Get].
	Pattern string
	// Build constructs the statement. Returning [errInvalid] or an expression
	// syntax error rejects the match. An *InternalSyntaxError or an
	// *intrinsic.ArityError aborts the parse.
	Build func(m *Match) (ast.Statement, error)
	// Opens is the construct a matching statement begins, if any.
	Opens string

	re *regexp.Regexp
}

func (r *Rule) compile() (err error) {
	if r.Build == nil {
		return errors.New("rule " + r.Name + " has no constructor")
	}
	r.re, err = regexp.Compile(`(?is)^(?:` + r.Pattern + `)$`)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.Name, err)
	}
	return nil
}

// Construct describes a block: how it ends, the middle statements it
// accepts and the statement classes allowed in its body.
type Construct struct {
	// Name appears in diagnostics, e.g. "IfThen" or "Subroutine".
	Name string
	// Kind is the block kind of the built [ast.Block].
	Kind ast.Kind
	// End closes the construct. Nil for the root.
	End *Rule
	// Inner are middle statements such as ELSE or CASE, tried before body rules.
	Inner []*Rule
	// Allows selects the rules admitted in the body.
	Allows Class
	// Unit marks program units, interfaces and derived types, whose END name
	// mismatches are reported as warnings instead of errors.
	Unit bool
	// Scope gives the body a fresh declaration scope.
	Scope bool
}

// Registry holds rules and constructs. It must be sealed before parsing and
// is read-only afterwards, so one registry serves concurrent parses.
type Registry struct {
	rules      []*Rule
	constructs map[string]*Construct
	candidates map[string][]*Rule
	sealed     bool
}

// NewRegistry returns an empty registry with the root construct
// [RootConstruct] defined to admit program units and procedures.
func NewRegistry() *Registry {
	r := &Registry{constructs: make(map[string]*Construct)}
	r.constructs[RootConstruct] = &Construct{
		Name:   RootConstruct,
		Kind:   ast.KindFile,
		Allows: ClassUnit | ClassProcedure,
	}
	return r
}

// RootConstruct is the name of the construct holding top level statements.
const RootConstruct = "BeginSource"

var errSealed = errors.New("registry is sealed")

// Register adds rule, compiling its pattern.
func (r *Registry) Register(rule *Rule) error {
	if r.sealed {
		return errSealed
	}
	if err := rule.compile(); err != nil {
		return err
	}
	r.rules = append(r.rules, rule)
	return nil
}

// RegisterConstruct adds c, compiling its end and middle rules. A construct
// registered under an existing name replaces it.
func (r *Registry) RegisterConstruct(c *Construct) error {
	if r.sealed {
		return errSealed
	}
	if c.Name == "" {
		return errors.New("construct without name")
	}
	if c.End != nil {
		if err := c.End.compile(); err != nil {
			return err
		}
	}
	for _, rule := range c.Inner {
		if err := rule.compile(); err != nil {
			return err
		}
	}
	r.constructs[c.Name] = c
	return nil
}

// Seal validates the registry and freezes it. Every rule's Opens must name a
// registered construct.
func (r *Registry) Seal() error {
	if r.sealed {
		return nil
	}
	for _, rule := range r.rules {
		if rule.Opens != "" && r.constructs[rule.Opens] == nil {
			return fmt.Errorf("rule %s opens unknown construct %q", rule.Name, rule.Opens)
		}
	}
	r.candidates = make(map[string][]*Rule, len(r.constructs))
	for name, c := range r.constructs {
		list := append([]*Rule(nil), c.Inner...)
		for _, rule := range r.rules {
			if rule.Class&c.Allows != 0 {
				list = append(list, rule)
			}
		}
		r.candidates[name] = list
	}
	r.sealed = true
	return nil
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool { return r.sealed }

// RulesFor returns the rules tried inside construct: its middle rules, then
// every admitted rule in registration order. The end rule is not included.
func (r *Registry) RulesFor(construct string) []*Rule {
	if r.sealed {
		return r.candidates[construct]
	}
	c := r.constructs[construct]
	if c == nil {
		return nil
	}
	list := append([]*Rule(nil), c.Inner...)
	for _, rule := range r.rules {
		if rule.Class&c.Allows != 0 {
			list = append(list, rule)
		}
	}
	return list
}

// Construct returns the construct registered as name or nil.
func (r *Registry) Construct(name string) *Construct {
	return r.constructs[name]
}

// DefaultRegistry returns the sealed registry with the full Fortran rule set.
// It is built on first use and shared.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	if err := registerFortran(r); err != nil {
		panic("fparser: building default registry: " + err.Error())
	}
	if err := r.Seal(); err != nil {
		panic("fparser: sealing default registry: " + err.Error())
	}
	return r
})
