package olink

import "fmt"

const (
	UnknownKind Kind = iota
	EnvironmentKind

	PackageKind
	ClassKind
	MixinKind
	SingletonKind
	ProgramKind
	TestKind

	MethodKind
	FieldKind
	VariableKind
	ParameterKind
	ImportKind

	ReferenceKind
	LiteralKind
	SendKind
)

type Kind int

func (k Kind) String() string {
	switch k {
	case EnvironmentKind:
		return "<environment>"
	case PackageKind:
		return "<package>"
	case ClassKind:
		return "<class>"
	case MixinKind:
		return "<mixin>"
	case SingletonKind:
		return "<singleton>"
	case ProgramKind:
		return "<program>"
	case TestKind:
		return "<test>"
	case MethodKind:
		return "<method>"
	case FieldKind:
		return "<field>"
	case VariableKind:
		return "<variable>"
	case ParameterKind:
		return "<parameter>"
	case ImportKind:
		return "<import>"
	case ReferenceKind:
		return "<reference>"
	case LiteralKind:
		return "<literal>"
	case SendKind:
		return "<send>"
	default:
		return "<unknown>"
	}
}

// Position is a node's location in its originating source, when known.
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) Header() string {
	if p == (Position{}) {
		return "[?]"
	}
	if p.File == "" {
		return fmt.Sprintf("[%d,%d]", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:[%d,%d]", p.File, p.Line, p.Col)
}

// NodeID identifies a node within the process. Raw nodes carry the zero id
// until a link operation rebuilds them into an Environment.
type NodeID uint64

// Node is any element of the tree. Raw nodes are built by struct literal and
// carry no id, scope, parent or environment; a link operation fills all four.
// The meta method closes the variant set to this package.
type Node interface {
	Kind() Kind
	ID() NodeID
	Scope() *Scope
	Parent() Node
	Environment() *Environment
	meta() *nodeMeta
}

// Named is any node carrying a declaration name.
type Named interface {
	Node
	Name() string
}

// Entity is a top-level or nested named declaration: a package, class,
// mixin, singleton, program or test. Entities register their name into their
// container's scope.
type Entity interface {
	Named
	entity()
}

// Module is an entity with a type hierarchy: a class, mixin or singleton.
// Hierarchy lists its proper ancestors, most specific first; it is computed
// and cached by the link operation.
type Module interface {
	Entity
	Hierarchy() []Module
	supertypes() []*Reference
	setHierarchy(h []Module)
}

// contributor is a non-entity node that registers a name binding into its
// parent's scope: a field, variable or parameter.
type contributor interface {
	Named
	contributes()
}

// nodeMeta holds the derived, write-once-per-node state attached after
// construction: id, scope, and the cached parent/environment back-references.
type nodeMeta struct {
	id     NodeID
	scope  *Scope
	parent Node
	env    *Environment
}

func (m *nodeMeta) ID() NodeID                { return m.id }
func (m *nodeMeta) Scope() *Scope             { return m.scope }
func (m *nodeMeta) Parent() Node              { return m.parent }
func (m *nodeMeta) Environment() *Environment { return m.env }
func (m *nodeMeta) meta() *nodeMeta           { return m }

// Environment is the root container produced by a link operation: the merged
// package tree plus the id index. Exactly one per link; immutable afterward.
type Environment struct {
	nodeMeta
	Members []Node
	byID    map[NodeID]Node
}

// NodeByID looks up a node of this environment by id in O(1).
func (e *Environment) NodeByID(id NodeID) (Node, bool) {
	node, ok := e.byID[id]
	return node, ok
}

// ByFQN resolves a dot-qualified name from the environment's own scope.
func (e *Environment) ByFQN(fqn string) (Node, error) {
	return e.scope.ResolveQualified(fqn)
}

type Package struct {
	nodeMeta
	Iden    string
	File    string
	Imports []*Import
	Members []Node
}

type Class struct {
	nodeMeta
	Iden       string
	Supertypes []*Reference
	Members    []Node
	ancestors  []Module
}

type Mixin struct {
	nodeMeta
	Iden       string
	Supertypes []*Reference
	Members    []Node
	ancestors  []Module
}

// Singleton is a named or anonymous object; anonymous singletons appear as
// expressions and contribute no binding.
type Singleton struct {
	nodeMeta
	Iden       string
	Supertypes []*Reference
	Members    []Node
	ancestors  []Module
}

type Program struct {
	nodeMeta
	Iden string
	Body []Node
}

type Test struct {
	nodeMeta
	Iden string
	Body []Node
}

type Method struct {
	nodeMeta
	Iden       string
	Parameters []*Parameter
	Body       []Node
}

type Field struct {
	nodeMeta
	Iden  string
	Value Node // optional initializer
}

type Variable struct {
	nodeMeta
	Iden  string
	Value Node // optional initializer
}

type Parameter struct {
	nodeMeta
	Iden string
}

// Import attaches to a package. A generic import exposes every member of the
// target; a simple import exposes exactly the target under its own name.
type Import struct {
	nodeMeta
	Ref     *Reference
	Generic bool
}

// Reference names another node, possibly dot-qualified. Resolution always
// yields an entity or contributor, never another reference.
type Reference struct {
	nodeMeta
	Iden string
	Pos  Position
}

type Literal struct {
	nodeMeta
	Value any
}

type Send struct {
	nodeMeta
	Receiver Node
	Message  string
	Args     []Node
}

func (e *Environment) Kind() Kind { return EnvironmentKind }
func (n *Package) Kind() Kind     { return PackageKind }
func (n *Class) Kind() Kind       { return ClassKind }
func (n *Mixin) Kind() Kind       { return MixinKind }
func (n *Singleton) Kind() Kind   { return SingletonKind }
func (n *Program) Kind() Kind     { return ProgramKind }
func (n *Test) Kind() Kind        { return TestKind }
func (n *Method) Kind() Kind      { return MethodKind }
func (n *Field) Kind() Kind       { return FieldKind }
func (n *Variable) Kind() Kind    { return VariableKind }
func (n *Parameter) Kind() Kind   { return ParameterKind }
func (n *Import) Kind() Kind      { return ImportKind }
func (n *Reference) Kind() Kind   { return ReferenceKind }
func (n *Literal) Kind() Kind     { return LiteralKind }
func (n *Send) Kind() Kind        { return SendKind }

func (n *Package) Name() string   { return n.Iden }
func (n *Class) Name() string     { return n.Iden }
func (n *Mixin) Name() string     { return n.Iden }
func (n *Singleton) Name() string { return n.Iden }
func (n *Program) Name() string   { return n.Iden }
func (n *Test) Name() string      { return n.Iden }
func (n *Method) Name() string    { return n.Iden }
func (n *Field) Name() string     { return n.Iden }
func (n *Variable) Name() string  { return n.Iden }
func (n *Parameter) Name() string { return n.Iden }

func (n *Package) entity()   {}
func (n *Class) entity()     {}
func (n *Mixin) entity()     {}
func (n *Singleton) entity() {}
func (n *Program) entity()   {}
func (n *Test) entity()      {}

func (n *Field) contributes()     {}
func (n *Variable) contributes()  {}
func (n *Parameter) contributes() {}

func (n *Class) supertypes() []*Reference     { return n.Supertypes }
func (n *Mixin) supertypes() []*Reference     { return n.Supertypes }
func (n *Singleton) supertypes() []*Reference { return n.Supertypes }

func (n *Class) Hierarchy() []Module     { return n.ancestors }
func (n *Mixin) Hierarchy() []Module     { return n.ancestors }
func (n *Singleton) Hierarchy() []Module { return n.ancestors }

func (n *Class) setHierarchy(h []Module)     { n.ancestors = h }
func (n *Mixin) setHierarchy(h []Module)     { n.ancestors = h }
func (n *Singleton) setHierarchy(h []Module) { n.ancestors = h }
