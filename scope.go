package olink

import "strings"

// Scope is a node's lexical binding environment: its own name bindings, an
// ordered list of included scopes (ancestors or imports, consulted exactly
// one hop deep), and an optional container scope (consulted transitively).
type Scope struct {
	bindings  map[string]Node
	includes  []*Scope
	container *Scope
}

func makeScope(container *Scope) *Scope {
	return &Scope{bindings: make(map[string]Node), container: container}
}

// Container returns the lexically enclosing scope, or nil at the root.
func (s *Scope) Container() *Scope { return s.container }

func (s *Scope) register(name string, node Node) {
	s.bindings[name] = node
}

// Resolve finds the node bound to name: first the local bindings, then each
// included scope's own bindings, then the container chain. Returns nil when
// no reachable scope binds name.
func (s *Scope) Resolve(name string) Node {
	return s.resolve(name, true)
}

func (s *Scope) resolve(name string, lookup bool) Node {
	if node, ok := s.bindings[name]; ok {
		return node
	}
	if !lookup {
		return nil
	}
	// included scopes answer from their own bindings only, never their
	// includes or container
	for _, included := range s.includes {
		if node := included.resolve(name, false); node != nil {
			return node
		}
	}
	if s.container != nil {
		return s.container.resolve(name, lookup)
	}
	return nil
}

// ResolveQualified resolves a dot-qualified name. After the first segment,
// only each resolved node's own bindings are reachable, not its lexical
// surroundings.
func (s *Scope) ResolveQualified(qualified string) (Node, error) {
	return s.resolveQualified(qualified, qualified, true)
}

func (s *Scope) resolveQualified(qualified string, full string, lookup bool) (Node, error) {
	head, rest, dotted := strings.Cut(qualified, ".")
	node := s.resolve(head, lookup)
	if node == nil {
		return nil, makeSegmentErr(head, full)
	}
	if !dotted {
		return node, nil
	}
	scope := node.Scope()
	if scope == nil {
		return nil, makeSegmentErr(rest, full)
	}
	return scope.resolveQualified(rest, full, false)
}
