package olink

import (
	"fmt"
	"sync/atomic"
)

// IDGenerator hands out node ids. A generator must never repeat an id for
// the lifetime of the process, even across concurrent link operations.
type IDGenerator interface {
	Next() NodeID
}

// Sequence is an IDGenerator backed by an atomic counter. The zero value
// starts handing out ids at 1; NewSequence starts above a given floor, which
// keeps ids deterministic in tests.
type Sequence struct {
	counter atomic.Uint64
}

func NewSequence(floor NodeID) *Sequence {
	s := &Sequence{}
	s.counter.Store(uint64(floor))
	return s
}

func (s *Sequence) Next() NodeID {
	return NodeID(s.counter.Add(1))
}

// processIDs backs every link that does not supply its own generator.
var processIDs = &Sequence{}

// makeEnvironment rebuilds the merged entity list into a fresh Environment,
// deep-copying every node and assigning it a new id. Ids are part of node
// identity, so nodes are never re-identified in place; prior environments
// keep theirs untouched.
func makeEnvironment(gen IDGenerator, members []Node) *Environment {
	env := &Environment{byID: make(map[NodeID]Node)}
	env.id = gen.Next()
	for _, member := range members {
		env.Members = append(env.Members, instantiate(gen, member))
	}
	return env
}

func instantiate(gen IDGenerator, n Node) Node {
	if n == nil {
		return nil
	}
	switch node := n.(type) {
	case *Package:
		next := &Package{Iden: node.Iden, File: node.File}
		next.id = gen.Next()
		for _, imp := range node.Imports {
			next.Imports = append(next.Imports, instantiate(gen, imp).(*Import))
		}
		for _, member := range node.Members {
			next.Members = append(next.Members, instantiate(gen, member))
		}
		return next
	case *Class:
		next := &Class{Iden: node.Iden}
		next.id = gen.Next()
		next.Supertypes = instantiateRefs(gen, node.Supertypes)
		next.Members = instantiateList(gen, node.Members)
		return next
	case *Mixin:
		next := &Mixin{Iden: node.Iden}
		next.id = gen.Next()
		next.Supertypes = instantiateRefs(gen, node.Supertypes)
		next.Members = instantiateList(gen, node.Members)
		return next
	case *Singleton:
		next := &Singleton{Iden: node.Iden}
		next.id = gen.Next()
		next.Supertypes = instantiateRefs(gen, node.Supertypes)
		next.Members = instantiateList(gen, node.Members)
		return next
	case *Program:
		next := &Program{Iden: node.Iden}
		next.id = gen.Next()
		next.Body = instantiateList(gen, node.Body)
		return next
	case *Test:
		next := &Test{Iden: node.Iden}
		next.id = gen.Next()
		next.Body = instantiateList(gen, node.Body)
		return next
	case *Method:
		next := &Method{Iden: node.Iden}
		next.id = gen.Next()
		for _, param := range node.Parameters {
			next.Parameters = append(next.Parameters, instantiate(gen, param).(*Parameter))
		}
		next.Body = instantiateList(gen, node.Body)
		return next
	case *Field:
		next := &Field{Iden: node.Iden}
		next.id = gen.Next()
		next.Value = instantiate(gen, node.Value)
		return next
	case *Variable:
		next := &Variable{Iden: node.Iden}
		next.id = gen.Next()
		next.Value = instantiate(gen, node.Value)
		return next
	case *Parameter:
		next := &Parameter{Iden: node.Iden}
		next.id = gen.Next()
		return next
	case *Import:
		next := &Import{Generic: node.Generic}
		next.id = gen.Next()
		next.Ref = instantiate(gen, node.Ref).(*Reference)
		return next
	case *Reference:
		next := &Reference{Iden: node.Iden, Pos: node.Pos}
		next.id = gen.Next()
		return next
	case *Literal:
		next := &Literal{Value: node.Value}
		next.id = gen.Next()
		return next
	case *Send:
		next := &Send{Message: node.Message}
		next.id = gen.Next()
		next.Receiver = instantiate(gen, node.Receiver)
		next.Args = instantiateList(gen, node.Args)
		return next
	default:
		panic(fmt.Sprintf("assertion error: cannot instantiate node kind %s", n.Kind()))
	}
}

func instantiateList(gen IDGenerator, nodes []Node) []Node {
	var next []Node
	for _, node := range nodes {
		next = append(next, instantiate(gen, node))
	}
	return next
}

func instantiateRefs(gen IDGenerator, refs []*Reference) []*Reference {
	var next []*Reference
	for _, ref := range refs {
		next = append(next, instantiate(gen, ref).(*Reference))
	}
	return next
}

// buildIndexes fills the cached parent/environment back-references and the
// environment's id index in a single traversal.
func buildIndexes(env *Environment) {
	env.env = env
	forEachNode(env, nil, func(parent, node Node) {
		m := node.meta()
		m.parent = parent
		m.env = env
		env.byID[m.id] = node
	})
}
