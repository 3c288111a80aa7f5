package olink

import "github.com/cockroachdb/errors"

// validate walks the whole environment and requires every reference to
// resolve from its own scope. All failures are reported together; a single
// one fails the link, since an environment with dangling references is not
// safe to evaluate.
func validate(env *Environment) error {
	var errs []error
	forEachNode(env, nil, func(parent, node Node) {
		ref, ok := node.(*Reference)
		if !ok {
			return
		}
		if _, err := ref.Scope().ResolveQualified(ref.Iden); err != nil {
			errs = append(errs, makeReferenceErr(ref))
		}
	})
	return errors.Join(errs...)
}
