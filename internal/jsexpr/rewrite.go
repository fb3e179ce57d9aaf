package jsexpr

import "sort"

// identRef is one identifier reference found in the tree, with enough
// context to rewrite it in place.
type identRef struct {
	ident     *Ident
	shorthand bool // value of a shorthand object property
}

// identRefs collects every identifier reference in tree order, including
// left-hand sides of assignment expressions. Non-computed member
// properties and non-shorthand object keys are skipped by Walk already.
func (e *Expression) identRefs() []identRef {
	shorthand := make(map[*Ident]bool)
	Walk(e.root, func(n Node) bool {
		if obj, ok := n.(*Object); ok {
			for _, prop := range obj.Properties {
				if prop.Shorthand {
					if id, ok := prop.Value.(*Ident); ok {
						shorthand[id] = true
					}
				}
			}
		}
		return true
	})
	var refs []identRef
	Walk(e.root, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			refs = append(refs, identRef{ident: id, shorthand: shorthand[id]})
		}
		return true
	})
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].ident.From < refs[j].ident.From
	})
	return refs
}

// AddThis rewrites every identifier occurrence whose name is in targets
// into a property access on the implicit `this` receiver, preserving all
// original formatting outside the rewritten spans. Shorthand object
// properties expand to their explicit form. Splices are applied
// back-to-front so earlier replacements never shift later offsets.
func (e *Expression) AddThis(targets []string) string {
	if e.root == nil {
		return e.raw
	}
	targetSet := make(map[string]bool, len(targets))
	for _, name := range targets {
		targetSet[name] = true
	}
	refs := e.identRefs()
	out := e.raw
	for i := len(refs) - 1; i >= 0; i-- {
		ref := refs[i]
		if !targetSet[ref.ident.Name] {
			continue
		}
		var replacement string
		if ref.shorthand {
			replacement = ref.ident.Name + ": this." + ref.ident.Name
		} else {
			replacement = "this." + ref.ident.Name
		}
		out = out[:ref.ident.From] + replacement + out[ref.ident.To:]
	}
	return out
}

// RenameIdentifiers rewrites identifier occurrences per the mapping,
// preserving surrounding formatting. Used when loop-scoped names collide
// with hoisted data keys.
func (e *Expression) RenameIdentifiers(mapping map[string]string) string {
	if e.root == nil {
		return e.raw
	}
	refs := e.identRefs()
	out := e.raw
	for i := len(refs) - 1; i >= 0; i-- {
		ref := refs[i]
		next, ok := mapping[ref.ident.Name]
		if !ok {
			continue
		}
		replacement := next
		if ref.shorthand {
			replacement = ref.ident.Name + ": " + next
		}
		out = out[:ref.ident.From] + replacement + out[ref.ident.To:]
	}
	return out
}
