package oil

import (
	"github.com/gogpu/oil/wgsl"
)

// ComposableModule is a named, reusable shader fragment held by the
// registry. It is immutable after insertion: the preprocessor already ran
// with the module's own define mapping, so the filtered source, surviving
// imports, and export surface are fixed at registration time.
type ComposableModule struct {
	name     string
	source   string // raw source as registered
	defines  Defines
	filtered string // source after conditional compilation
	imports  []importStmt
	decls    *wgsl.Module
}

// Name returns the registry name of the module.
func (m *ComposableModule) Name() string { return m.name }

// Source returns the raw source the module was registered with.
func (m *ComposableModule) Source() string { return m.source }

// Defines returns a copy of the module's resolved define mapping.
func (m *ComposableModule) Defines() Defines { return m.defines.clone() }

// Imports returns the module paths this module imports after conditional
// compilation.
func (m *ComposableModule) Imports() []string {
	paths := make([]string, len(m.imports))
	for i, imp := range m.imports {
		paths[i] = imp.Path
	}
	return paths
}

// Exports returns the sorted top-level declaration names the module
// contributes to a composition.
func (m *ComposableModule) Exports() []string {
	return m.decls.Names()
}

// ComposableModuleDescriptor describes one module registration.
type ComposableModuleDescriptor struct {
	// Name keys the module in the registry. Optional when Source carries
	// a #define_import_path directive.
	Name string

	// Source is the module's shader source.
	Source string

	// Defs is the module's declared define universe; each symbol defaults
	// to false.
	Defs []string

	// Activated lists the declared symbols that are set true for this
	// module.
	Activated []string

	// DefValues supplies explicit values for symbols, overriding
	// Defs/Activated for the same symbol.
	DefValues map[string]DefValue
}

// ModuleDescriptor describes one composition request: the main source and
// the request's activated defines. It is transient; nothing about it
// persists after Make returns.
type ModuleDescriptor struct {
	// Source is the main shader source to compose.
	Source string

	// Activated lists symbols set true for this request.
	Activated []string

	// DefValues supplies explicit values for symbols.
	DefValues map[string]DefValue
}
