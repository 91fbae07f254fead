// Package oil provides shader-module composition for WGSL.
//
// oil builds a final shader translation unit from a main source plus a
// registry of reusable shader fragments ("composable modules"),
// parameterized by conditional-compilation symbols ("shader defs"). The
// result is a validated intermediate artifact ready for a backend shader
// compiler; on failure the caller gets a structured, renderable
// diagnostic instead.
//
// The package provides a simple high-level entry point as well as the
// Composer type for registry-based composition.
//
// Example usage:
//
//	composer := oil.NewComposer()
//
//	_, err := composer.AddComposableModule(oil.ComposableModuleDescriptor{
//	    Name:   "colormap",
//	    Source: colormapWGSL,
//	    Defs:   []string{"USE_ALPHA"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	artifact, err := composer.Make(oil.ModuleDescriptor{
//	    Source:    mainWGSL,
//	    Activated: []string{"USE_ALPHA"},
//	})
//	if err != nil {
//	    var diag *oil.Diagnostic
//	    errors.As(err, &diag)
//	    fmt.Println(oil.Reporter{}.Render(diag, composer.Registry()))
//	    return
//	}
//	backendCompile(artifact.WGSL())
//
// Inside shader sources, modules are pulled in with #import and
// conditional spans are guarded with #ifdef/#ifndef/#if/#else/#endif; see
// the preprocessor documentation in this package for the full dialect.
package oil

// Compose composes a standalone source with the given symbols activated,
// using a fresh composer with an empty registry. It is the simplest way to
// apply conditional compilation and validation to a single shader; sources
// with #import directives need a Composer with registered modules.
func Compose(source string, activated ...string) (*Artifact, error) {
	return NewComposer().Make(ModuleDescriptor{
		Source:    source,
		Activated: activated,
	})
}
