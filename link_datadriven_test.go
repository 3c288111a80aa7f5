package olink

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

// The datadriven tests build trees from an indented outline, two spaces per
// nesting level:
//
//	package zoo
//	  import lang.things generic
//	  class Bird extends Animal
//	    field energy
//
// Commands: link (fresh environment), relink (merge into the current one),
// resolve <fqn>, lookup <fqn> <name>, hierarchy <fqn>.
func TestLink_DataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var env *Environment
		gen := NewSequence(0)
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "link", "relink":
				base := env
				if d.Cmd == "link" {
					base = nil
				}
				next, err := Linker{Gen: gen}.Link(base, parseOutline(t, d.Input)...)
				if err != nil {
					return err.Error()
				}
				env = next
				return "ok"
			case "resolve":
				node, err := env.ByFQN(d.CmdArgs[0].Key)
				if err != nil {
					return err.Error()
				}
				return describeNode(node)
			case "lookup":
				node, err := env.ByFQN(d.CmdArgs[0].Key)
				if err != nil {
					return err.Error()
				}
				target := node.Scope().Resolve(d.CmdArgs[1].Key)
				if target == nil {
					return "not found"
				}
				return describeNode(target)
			case "hierarchy":
				node, err := env.ByFQN(d.CmdArgs[0].Key)
				if err != nil {
					return err.Error()
				}
				module, ok := node.(Module)
				if !ok {
					return fmt.Sprintf("%s has no hierarchy", node.Kind())
				}
				var names []string
				for _, ancestor := range module.Hierarchy() {
					names = append(names, describeNode(ancestor))
				}
				if names == nil {
					return "none"
				}
				return strings.Join(names, "\n")
			default:
				d.Fatalf(t, "unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

func describeNode(node Node) string {
	var segments []string
	for n := node; n != nil; n = n.Parent() {
		named, ok := n.(Named)
		if !ok {
			continue
		}
		segments = append([]string{named.Name()}, segments...)
	}
	return fmt.Sprintf("%s %s", node.Kind(), strings.Join(segments, "."))
}

// parseOutline turns an indented outline into raw top-level entities.
func parseOutline(t *testing.T, input string) []Node {
	var roots []Node
	type frame struct {
		depth int
		node  Node
	}
	var stack []frame

	for lineNo, raw := range strings.Split(input, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		if indent%2 != 0 {
			t.Fatalf("line %d: odd indentation", lineNo+1)
		}
		depth := indent / 2
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}

		node := parseOutlineLine(t, lineNo+1, strings.TrimSpace(raw))
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			attachOutlineChild(t, lineNo+1, stack[len(stack)-1].node, node)
		}
		stack = append(stack, frame{depth: depth, node: node})
	}
	return roots
}

func parseOutlineLine(t *testing.T, lineNo int, line string) Node {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		t.Fatalf("line %d: expected a kind and a name: %q", lineNo, line)
	}
	kind, name, rest := tokens[0], tokens[1], tokens[2:]

	supertypes := func() []*Reference {
		if len(rest) == 0 {
			return nil
		}
		if rest[0] != "extends" {
			t.Fatalf("line %d: expected 'extends', found %q", lineNo, rest[0])
		}
		var refs []*Reference
		for _, iden := range rest[1:] {
			refs = append(refs, &Reference{Iden: iden})
		}
		return refs
	}

	switch kind {
	case "package":
		return &Package{Iden: name}
	case "import":
		generic := len(rest) > 0 && rest[0] == "generic"
		return &Import{Ref: &Reference{Iden: name}, Generic: generic}
	case "class":
		return &Class{Iden: name, Supertypes: supertypes()}
	case "mixin":
		return &Mixin{Iden: name, Supertypes: supertypes()}
	case "singleton":
		return &Singleton{Iden: name, Supertypes: supertypes()}
	case "program":
		return &Program{Iden: name}
	case "test":
		return &Test{Iden: name}
	case "method":
		method := &Method{Iden: name}
		for _, param := range rest {
			method.Parameters = append(method.Parameters, &Parameter{Iden: param})
		}
		return method
	case "field":
		return &Field{Iden: name}
	case "var":
		return &Variable{Iden: name}
	case "ref":
		return &Reference{Iden: name}
	default:
		t.Fatalf("line %d: unknown node kind %q", lineNo, kind)
		return nil
	}
}

func attachOutlineChild(t *testing.T, lineNo int, parent, child Node) {
	if imp, ok := child.(*Import); ok {
		pkg, ok := parent.(*Package)
		if !ok {
			t.Fatalf("line %d: import outside a package", lineNo)
		}
		pkg.Imports = append(pkg.Imports, imp)
		return
	}
	switch parent := parent.(type) {
	case *Package:
		parent.Members = append(parent.Members, child)
	case *Class:
		parent.Members = append(parent.Members, child)
	case *Mixin:
		parent.Members = append(parent.Members, child)
	case *Singleton:
		parent.Members = append(parent.Members, child)
	case *Program:
		parent.Body = append(parent.Body, child)
	case *Test:
		parent.Body = append(parent.Body, child)
	case *Method:
		parent.Body = append(parent.Body, child)
	default:
		t.Fatalf("line %d: %s cannot contain children", lineNo, parent.Kind())
	}
}
