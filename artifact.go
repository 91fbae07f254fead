package oil

import (
	"github.com/gogpu/oil/wgsl"
)

// Artifact is the validated merged translation unit produced by a
// successful composition. It is immutable and owned by the caller; the
// composer keeps no reference to it. A downstream backend compiler turns
// it into an executable GPU program.
type Artifact struct {
	source  string
	decls   *wgsl.Module
	modules []string
}

// WGSL returns the merged translation unit source.
func (a *Artifact) WGSL() string { return a.source }

// Decls returns the top-level declarations of the merged unit, with spans
// pointing into WGSL().
func (a *Artifact) Decls() []wgsl.Decl {
	out := make([]wgsl.Decl, len(a.decls.Decls))
	copy(out, a.decls.Decls)
	return out
}

// Modules returns the names of the composable modules merged into the
// artifact, dependencies first. The main source is not listed.
func (a *Artifact) Modules() []string {
	out := make([]string, len(a.modules))
	copy(out, a.modules)
	return out
}
