package olink

import "slices"

// Merge folds each update into base, producing a new top-level entity list.
// Neither input is mutated. Same-named packages are merged recursively in
// place; any other same-named entity is replaced, last writer wins, which
// supports redefinition across incremental relinks.
func Merge(base []Node, updates ...Node) []Node {
	members := slices.Clone(base)
	for _, update := range updates {
		members = mergeEntity(members, update)
	}
	return members
}

func mergeEntity(members []Node, update Node) []Node {
	pkg, ok := update.(*Package)
	if !ok {
		result := make([]Node, 0, len(members)+1)
		name := ""
		if named, ok := update.(Named); ok {
			name = named.Name()
		}
		for _, member := range members {
			if named, ok := member.(Named); ok && name != "" && named.Name() == name {
				continue
			}
			result = append(result, member)
		}
		return append(result, update)
	}

	for i, member := range members {
		existing, ok := member.(*Package)
		if !ok || existing.Iden != pkg.Iden {
			continue
		}
		merged := existing.Members
		for _, inner := range pkg.Members {
			merged = mergeEntity(merged, inner)
		}
		// replaced at the collision point so declaration order survives
		result := slices.Clone(members)
		result[i] = &Package{
			Iden:    existing.Iden,
			File:    existing.File,
			Imports: existing.Imports,
			Members: merged,
		}
		return result
	}
	return append(slices.Clone(members), pkg)
}
