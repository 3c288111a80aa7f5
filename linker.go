package olink

import "github.com/cockroachdb/errors"

// DefaultGlobals names the packages whose members are visible everywhere
// without an explicit import, when present in the linked tree.
var DefaultGlobals = []string{"lang"}

// Linker configures a link operation. The zero value uses the process-wide
// id generator and DefaultGlobals.
type Linker struct {
	Gen     IDGenerator
	Globals []string
}

// Link merges units into base (which may be nil) and produces a new, fully
// linked Environment using the default Linker. The base environment is never
// mutated; the result shares nothing with it.
func Link(base *Environment, units ...Node) (*Environment, error) {
	return Linker{}.Link(base, units...)
}

// Link runs the whole pipeline: merge, rebuild with fresh ids, index, scope
// assignment, validation. It either returns a fully validated environment or
// an error and no environment.
func (l Linker) Link(base *Environment, units ...Node) (*Environment, error) {
	gen := l.Gen
	if gen == nil {
		gen = processIDs
	}
	globals := l.Globals
	if globals == nil {
		globals = DefaultGlobals
	}

	var baseMembers []Node
	if base != nil {
		baseMembers = base.Members
	}
	env := makeEnvironment(gen, Merge(baseMembers, units...))
	buildIndexes(env)
	if err := buildScopes(env, globals); err != nil {
		return nil, err
	}
	if err := validate(env); err != nil {
		return nil, err
	}
	return env, nil
}

// buildScopes assigns every node's scope in ordered passes. The first builds
// the scope skeleton along the containment tree and registers entity names;
// the second adds the cross-links: global packages, package imports and the
// remaining name contributors; the last resolves inheritance.
func buildScopes(env *Environment, globals []string) error {
	forEachNode(env, nil, func(parent, node Node) {
		node.meta().scope = makeScope(containerScope(parent, node))
		if entity, ok := node.(Entity); ok && parent != nil && entity.Name() != "" {
			parent.Scope().register(entity.Name(), node)
		}
	})

	var errs []error
	forEachNode(env, nil, func(parent, node Node) {
		switch node := node.(type) {
		case *Environment:
			registerGlobals(node, globals)
		case *Package:
			if len(node.Imports) > 0 {
				errs = append(errs, linkImports(node)...)
			}
		}
		if c, ok := node.(contributor); ok && parent != nil && c.Name() != "" {
			parent.Scope().register(c.Name(), node)
		}
	})

	// inheritance is linked only once every package's imports are in place:
	// a supertype reference may name an entity the ancestor's own package
	// imports
	forEachNode(env, nil, func(parent, node Node) {
		if m, ok := node.(Module); ok {
			errs = append(errs, linkHierarchy(m)...)
		}
	})
	return errors.Join(errs...)
}

// containerScope picks a node's lexical container scope. A reference hanging
// off a class or mixin names a supertype, and must resolve in the scope of
// the declaring entity's own container: the declaration does not contain
// itself while its inheritance clause is resolved.
func containerScope(parent, node Node) *Scope {
	if parent == nil {
		return nil
	}
	if _, ok := node.(*Reference); ok {
		switch parent.(type) {
		case *Class, *Mixin:
			if grand := parent.Parent(); grand != nil {
				return grand.Scope()
			}
			return nil
		}
	}
	return parent.Scope()
}

// registerGlobals copies the exported bindings of each always-visible global
// package into the environment's own scope. A global package absent from the
// tree is skipped.
func registerGlobals(env *Environment, globals []string) {
	for _, fqn := range globals {
		target, err := env.Scope().ResolveQualified(fqn)
		if err != nil {
			continue
		}
		pkg, ok := target.(*Package)
		if !ok {
			continue
		}
		for _, member := range pkg.Members {
			if entity, ok := member.(Entity); ok && entity.Name() != "" {
				env.Scope().register(entity.Name(), member)
			}
		}
	}
}

// linkImports prepends the package's import-derived scopes: one auxiliary
// scope binding each simple import's target under its own name, then the
// scope of each generic import's target in declaration order. Prepending
// makes simple imports outrank generic ones, and both outrank everything
// else reachable from the package.
func linkImports(pkg *Package) []error {
	var errs []error
	simple := makeScope(nil)
	var generics []*Scope

	for _, imp := range pkg.Imports {
		target, err := imp.Scope().ResolveQualified(imp.Ref.Iden)
		if err != nil {
			errs = append(errs, makeImportErr(imp, err))
			continue
		}
		if imp.Generic {
			if target.Scope() != nil {
				generics = append(generics, target.Scope())
			}
			continue
		}
		if named, ok := target.(Named); ok {
			simple.register(named.Name(), target)
		}
	}

	scope := pkg.Scope()
	scope.includes = append(append([]*Scope{simple}, generics...), scope.includes...)
	return errs
}

// linkHierarchy resolves the module's supertype references into its ancestor
// list, caches it, and appends each ancestor's scope to the module's
// included scopes. Ancestors are ordered depth-first over the supertype
// declarations, most specific first, deduplicated; the seen set also
// terminates inheritance cycles.
func linkHierarchy(m Module) []error {
	var errs []error
	seen := map[Module]bool{m: true}
	var ancestors []Module

	var climb func(mod Module)
	climb = func(mod Module) {
		for _, ref := range mod.supertypes() {
			target, err := ref.Scope().ResolveQualified(ref.Iden)
			if err != nil {
				errs = append(errs, makeSupertypeErr(ref, err))
				continue
			}
			ancestor, ok := target.(Module)
			if !ok {
				errs = append(errs, makeSupertypeErr(ref, errors.Newf("%s is not a class, mixin or singleton", target.Kind())))
				continue
			}
			if seen[ancestor] {
				continue
			}
			seen[ancestor] = true
			ancestors = append(ancestors, ancestor)
			climb(ancestor)
		}
	}
	climb(m)

	m.setHierarchy(ancestors)
	scope := m.Scope()
	for _, ancestor := range ancestors {
		scope.includes = append(scope.includes, ancestor.Scope())
	}
	return errs
}
