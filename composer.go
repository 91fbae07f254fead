package oil

import (
	"log/slog"
	"strings"

	"github.com/gogpu/oil/wgsl"
)

// Composer builds final shader translation units from a main source plus
// registered composable modules. It owns a Registry (or shares one passed
// via WithRegistry) and reports registrations through a structured logger.
//
// Composition is synchronous and CPU-bound. A Composer is safe for
// concurrent use to the extent its Registry is: registration serializes
// under the registry lock, and Make only reads registry state.
type Composer struct {
	registry *Registry
	logger   *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithRegistry makes the composer use a shared registry instead of owning
// a fresh one.
func WithRegistry(r *Registry) Option {
	return func(c *Composer) { c.registry = r }
}

// WithLogger sets the logger used for registration events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// NewComposer creates a composer with an empty registry and the default
// logger, then applies opts.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		registry: NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the composer's registry.
func (c *Composer) Registry() *Registry { return c.registry }

// Contains reports whether a module is registered under name.
func (c *Composer) Contains(name string) bool {
	return c.registry.Contains(name)
}

// AddComposableModule registers a shader fragment for use in later Make
// calls. Registration is idempotent with first-wins semantics: if a module
// already exists under the resolved name, the call is a no-op and returns
// the existing module, so callers may register unconditionally on every
// request.
//
// The module's conditional spans are evaluated here, once, against its own
// normalized define mapping, and the surviving source is structurally
// scanned. On failure a RegistrationFailure diagnostic is returned and
// nothing is inserted; Contains stays false and a later call may retry.
//
// References to names provided by other modules are not resolved here;
// that happens when a composition brings the import closure together.
func (c *Composer) AddComposableModule(desc ComposableModuleDescriptor) (*ComposableModule, error) {
	defs := NormalizeDefines(desc.Defs, desc.Activated, desc.DefValues)

	pre, perr := preprocess(desc.Source, defs)
	if perr != nil {
		return nil, &Diagnostic{
			Kind:    RegistrationFailure,
			Modules: []string{desc.Name},
			Span:    perr.Span,
			Source:  desc.Source,
			Message: "preprocessing failed",
			Cause:   perr,
		}
	}

	name := desc.Name
	if name == "" {
		name = pre.ImportPath
	}
	if name == "" {
		return nil, &Diagnostic{
			Kind:    RegistrationFailure,
			Message: "module has no name: set Name or add #define_import_path",
			Source:  desc.Source,
		}
	}

	decls, serr := wgsl.ScanModule(pre.Source)
	if serr != nil {
		return nil, &Diagnostic{
			Kind:    RegistrationFailure,
			Modules: []string{name},
			Span:    serr.Span,
			Source:  desc.Source,
			Message: "module is not structurally valid",
			Cause:   serr,
		}
	}

	// A fragment that declares the same name twice can never compose.
	seen := make(map[string]wgsl.Span, len(decls.Decls))
	for _, d := range decls.Decls {
		if _, dup := seen[d.Name]; dup {
			return nil, &Diagnostic{
				Kind:    RegistrationFailure,
				Modules: []string{name},
				Span:    d.Span,
				Source:  desc.Source,
				Message: "module declares " + d.Name + " more than once",
			}
		}
		seen[d.Name] = d.Span
	}

	module := &ComposableModule{
		name:     name,
		source:   desc.Source,
		defines:  defs,
		filtered: pre.Source,
		imports:  pre.Imports,
		decls:    decls,
	}

	stored, inserted := c.registry.Register(module)
	if inserted {
		c.logger.Info("registered composable module",
			"name", name,
			"defines", defs.String(),
			"exports", len(decls.Decls),
		)
	} else {
		c.logger.Debug("composable module already registered", "name", name)
	}
	return stored, nil
}

// Make composes the descriptor's main source with its transitive import
// closure and returns a validated artifact, or a Diagnostic describing the
// first failure. The request's defines apply only to the main source;
// every imported module was already filtered with its own defines at
// registration time.
//
// Make is deterministic: identical descriptors against identical registry
// state produce structurally identical artifacts. A failed call leaves the
// registry untouched.
func (c *Composer) Make(desc ModuleDescriptor) (*Artifact, error) {
	defs := NormalizeDefines(nil, desc.Activated, desc.DefValues)

	pre, perr := preprocess(desc.Source, defs)
	if perr != nil {
		return nil, &Diagnostic{
			Kind:    ValidationFailed,
			Modules: []string{""},
			Span:    perr.Span,
			Source:  desc.Source,
			Message: "preprocessing main source failed",
			Cause:   perr,
		}
	}

	mainDecls, serr := wgsl.ScanModule(pre.Source)
	if serr != nil {
		return nil, &Diagnostic{
			Kind:    ValidationFailed,
			Modules: []string{""},
			Span:    serr.Span,
			Source:  desc.Source,
			Message: "main source is not structurally valid",
			Cause:   serr,
		}
	}

	closure, diag := c.resolveClosure(pre.Imports, desc.Source)
	if diag != nil {
		return nil, diag
	}

	artifact, diag := c.merge(closure, pre.Source, mainDecls, desc.Source)
	if diag != nil {
		return nil, diag
	}
	return artifact, nil
}

// resolveClosure walks the import graph depth-first in source order and
// returns the modules of the closure with dependencies before dependents.
func (c *Composer) resolveClosure(rootImports []importStmt, mainSource string) ([]*ComposableModule, *Diagnostic) {
	var (
		order   []*ComposableModule
		visited = map[string]bool{}
		onStack = map[string]bool{}
		stack   []string
	)

	var visit func(imp importStmt, importer, importerSource string) *Diagnostic
	visit = func(imp importStmt, importer, importerSource string) *Diagnostic {
		name := imp.Path
		if onStack[name] {
			cycle := cycleFrom(stack, name)
			return &Diagnostic{
				Kind:    ImportCycle,
				Modules: cycle,
				Cycle:   cycle,
				Span:    imp.Span,
				Source:  importerSource,
				Message: "import cycle: " + joinCycle(cycle),
			}
		}
		if visited[name] {
			return nil
		}

		module, ok := c.registry.Get(name)
		if !ok {
			return &Diagnostic{
				Kind:    UnresolvedImport,
				Modules: []string{importer, name},
				Span:    imp.Span,
				Source:  importerSource,
				Message: moduleLabel(importer) + " imports unknown module \"" + name + "\"",
			}
		}

		onStack[name] = true
		stack = append(stack, name)
		for _, child := range module.imports {
			if diag := visit(child, name, module.source); diag != nil {
				return diag
			}
		}
		stack = stack[:len(stack)-1]
		onStack[name] = false

		visited[name] = true
		order = append(order, module)
		return nil
	}

	for _, imp := range rootImports {
		if diag := visit(imp, "", mainSource); diag != nil {
			return nil, diag
		}
	}
	return order, nil
}

// merge concatenates the filtered sources of the closure (dependencies
// first, main last), rejects duplicate top-level symbols, and validates
// the result.
func (c *Composer) merge(closure []*ComposableModule, mainFiltered string, mainDecls *wgsl.Module, mainSource string) (*Artifact, *Diagnostic) {
	owners := map[string]string{}

	var (
		merged     wgsl.Module
		sb         = newSourceBuilder()
		moduleList = make([]string, 0, len(closure))
	)

	appendUnit := func(name, filtered, raw string, decls *wgsl.Module) *Diagnostic {
		offset := sb.add(name, filtered)
		for _, d := range decls.Decls {
			if owner, dup := owners[d.Name]; dup {
				return &Diagnostic{
					Kind:    DuplicateSymbol,
					Modules: []string{owner, name},
					Span:    d.Span,
					Source:  raw,
					Message: "top-level symbol \"" + d.Name + "\" declared in both " +
						moduleLabel(owner) + " and " + moduleLabel(name),
				}
			}
			owners[d.Name] = name
			merged.Decls = append(merged.Decls, shiftDecl(d, offset))
		}
		return nil
	}

	for _, module := range closure {
		if diag := appendUnit(module.name, module.filtered, module.source, module.decls); diag != nil {
			return nil, diag
		}
		moduleList = append(moduleList, module.name)
	}
	if diag := appendUnit("", mainFiltered, mainSource, mainDecls); diag != nil {
		return nil, diag
	}

	mergedSource := sb.String()
	if errs := wgsl.Validate(&merged, mergedSource); errs.HasErrors() {
		first := errs[0]
		return nil, &Diagnostic{
			Kind:    ValidationFailed,
			Modules: []string{sb.unitAt(first.Span.Start.Line)},
			Span:    first.Span,
			Source:  mergedSource,
			Message: "merged unit failed validation",
			Cause:   errs,
		}
	}

	c.logger.Debug("composed shader module",
		"modules", len(moduleList),
		"decls", len(merged.Decls),
	)
	return &Artifact{
		source:  mergedSource,
		decls:   &merged,
		modules: moduleList,
	}, nil
}

// shiftDecl rebases a declaration's spans from unit-local lines to merged
// source lines.
func shiftDecl(d wgsl.Decl, lineOffset int) wgsl.Decl {
	out := d
	out.Span = shiftSpan(d.Span, lineOffset)
	out.Refs = make([]wgsl.Ref, len(d.Refs))
	for i, r := range d.Refs {
		out.Refs[i] = wgsl.Ref{Name: r.Name, Span: shiftSpan(r.Span, lineOffset)}
	}
	return out
}

func shiftSpan(s wgsl.Span, lineOffset int) wgsl.Span {
	if s.IsZero() {
		return s
	}
	s.Start.Line += lineOffset
	if s.End.Line > 0 {
		s.End.Line += lineOffset
	}
	return s
}

func cycleFrom(stack []string, name string) []string {
	i := 0
	for i < len(stack) && stack[i] != name {
		i++
	}
	cycle := make([]string, 0, len(stack)-i+1)
	cycle = append(cycle, stack[i:]...)
	return append(cycle, name)
}

func joinCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}

// sourceBuilder concatenates unit sources while remembering which merged
// lines came from which unit, so validation failures can be attributed to
// a module.
type sourceBuilder struct {
	sb     strings.Builder
	lines  int
	ranges []unitRange
}

type unitRange struct {
	name  string
	start int // first line of the unit in the merged source, 1-based
	count int
}

func newSourceBuilder() *sourceBuilder {
	return &sourceBuilder{}
}

// add appends a unit's filtered source and returns the line offset to
// rebase the unit's spans by.
func (b *sourceBuilder) add(name, filtered string) int {
	offset := b.lines
	count := strings.Count(filtered, "\n") + 1
	b.sb.WriteString(filtered)
	b.sb.WriteByte('\n')
	b.lines += count
	b.ranges = append(b.ranges, unitRange{name: name, start: offset + 1, count: count})
	return offset
}

// unitAt returns the name of the unit owning a merged-source line.
func (b *sourceBuilder) unitAt(line int) string {
	for _, r := range b.ranges {
		if line >= r.start && line < r.start+r.count {
			return r.name
		}
	}
	return ""
}

func (b *sourceBuilder) String() string {
	return b.sb.String()
}
