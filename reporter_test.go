package oil

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/oil/wgsl"
)

func TestRenderUnresolvedImport(t *testing.T) {
	c := newTestComposer()

	_, err := c.Make(ModuleDescriptor{Source: "#import shadows\nfn f() {}"})
	diag := asDiagnostic(t, err)

	out := Reporter{}.Render(diag, c.Registry())
	assert.Contains(t, out, "UnresolvedImport")
	assert.Contains(t, out, `"shadows"`)
	assert.Contains(t, out, "#import shadows", "excerpt should show the import site")
	assert.Contains(t, out, "^", "excerpt should carry a caret")
	assert.Contains(t, out, "line 1:1")
}

func TestRenderImportCycle(t *testing.T) {
	c := newTestComposer()
	mustRegister(t, c, ComposableModuleDescriptor{
		Name:   "ping",
		Source: "#import pong\nfn ping_f() {}",
	})
	mustRegister(t, c, ComposableModuleDescriptor{
		Name:   "pong",
		Source: "#import ping\nfn pong_f() {}",
	})

	_, err := c.Make(ModuleDescriptor{Source: "#import ping\nfn f() {}"})
	diag := asDiagnostic(t, err)

	out := Reporter{}.Render(diag, c.Registry())
	assert.Contains(t, out, "ping -> pong -> ping")
}

func TestRenderValidationCauseChain(t *testing.T) {
	c := newTestComposer()
	mustRegister(t, c, ComposableModuleDescriptor{
		Name:   "fog",
		Source: "fn apply_fog(c: vec3<f32>) -> vec3<f32> { return mix(c, fog_color(), 0.5); }",
	})

	_, err := c.Make(ModuleDescriptor{Source: "#import fog\nfn f() {}"})
	diag := asDiagnostic(t, err)

	out := Reporter{}.Render(diag, c.Registry())
	assert.Contains(t, out, "ValidationFailed")
	assert.Contains(t, out, `module "fog"`)
	assert.Contains(t, out, "caused by:")
	assert.Contains(t, out, "fog_color")
}

func TestRenderDegradesWithoutSpan(t *testing.T) {
	diag := &Diagnostic{
		Kind:    RegistrationFailure,
		Modules: []string{"broken"},
		Message: "module has no name",
	}

	out := Reporter{}.Render(diag, NewRegistry())
	assert.Contains(t, out, "RegistrationFailure")
	assert.Contains(t, out, "module has no name")
	assert.NotContains(t, out, "-->", "no location header without a span")
}

func TestRenderNilDiagnostic(t *testing.T) {
	out := Reporter{}.Render(nil, nil)
	assert.Equal(t, "no diagnostic", out)
}

func TestRenderLooksUpModuleSourceInRegistry(t *testing.T) {
	c := NewComposer(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	mustRegister(t, c, ComposableModuleDescriptor{
		Name:   "lighting",
		Source: "#import shadows\nfn shade() {}",
	})

	_, err := c.Make(ModuleDescriptor{Source: "#import lighting\nfn f() {}"})
	diag := asDiagnostic(t, err)
	require.Equal(t, UnresolvedImport, diag.Kind)

	// The failing span lives in lighting's source, which only the
	// registry holds.
	diag.Source = ""
	out := Reporter{}.Render(diag, c.Registry())
	assert.Contains(t, out, "#import shadows")
}

func TestRenderNeverPanicsOnBogusSpan(t *testing.T) {
	diag := &Diagnostic{
		Kind:    ValidationFailed,
		Modules: []string{""},
		Message: "boom",
		Span:    wgsl.LineSpan(999),
		Source:  "one line only",
	}
	out := Reporter{}.Render(diag, nil)
	if !strings.Contains(out, "boom") {
		t.Errorf("Expected best-effort dump, got %q", out)
	}
}
