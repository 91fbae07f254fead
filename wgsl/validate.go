package wgsl

// Validate structurally validates a scanned module: every top-level name
// is declared at most once, and every referenced name resolves to a
// top-level declaration or a WGSL builtin.
//
// Validation checks include:
//   - Redeclaration of a top-level name within the unit
//   - Dangling type references (struct members, parameters, return types,
//     local declarations)
//   - Dangling call targets
//
// Returns a list of errors carrying the offending spans; an empty list
// means validation passed.
func Validate(module *Module, source string) SourceErrors {
	var errs SourceErrors

	declared := make(map[string]Span, len(module.Decls))
	for _, d := range module.Decls {
		if first, ok := declared[d.Name]; ok {
			errs = append(errs, NewSourceErrorf(d.Span, source,
				"redeclaration of %q (first declared at line %d)", d.Name, first.Start.Line))
			continue
		}
		declared[d.Name] = d.Span
	}

	for _, d := range module.Decls {
		// A declaration may reference the same unknown name repeatedly;
		// report each use site once.
		seen := map[string]bool{}
		for _, ref := range d.Refs {
			if _, ok := declared[ref.Name]; ok {
				continue
			}
			if IsBuiltin(ref.Name) {
				continue
			}
			key := ref.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			errs = append(errs, NewSourceErrorf(ref.Span, source,
				"unresolved reference %q in %s %q", ref.Name, d.Kind, d.Name))
		}
	}

	return errs
}
