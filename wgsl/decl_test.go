package wgsl

import (
	"testing"
)

const declTestSource = `
struct Camera {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
}

@group(0) @binding(0) var<uniform> camera: Camera;

const FOG_DENSITY: f32 = 0.02;

alias Color = vec4<f32>;

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func TestScanModuleDeclarations(t *testing.T) {
	module, err := ScanModule(declTestSource)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []struct {
		kind DeclKind
		name string
	}{
		{DeclStruct, "Camera"},
		{DeclVar, "camera"},
		{DeclConst, "FOG_DENSITY"},
		{DeclAlias, "Color"},
		{DeclFn, "vs_main"},
	}

	if len(module.Decls) != len(expected) {
		t.Fatalf("Expected %d declarations, got %d", len(expected), len(module.Decls))
	}
	for i, want := range expected {
		got := module.Decls[i]
		if got.Kind != want.kind || got.Name != want.name {
			t.Errorf("Decl %d: expected %s %q, got %s %q", i, want.kind, want.name, got.Kind, got.Name)
		}
	}
}

func TestScanModuleVarReferencesType(t *testing.T) {
	module, err := ScanModule(declTestSource)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decl, ok := module.Lookup("camera")
	if !ok {
		t.Fatal("Expected camera declaration")
	}
	if !hasRef(decl, "Camera") {
		t.Errorf("Expected camera to reference Camera, got %v", decl.Refs)
	}
}

func TestScanModuleFnRefs(t *testing.T) {
	source := `
fn shade(n: Normal, l: LightDir) -> Color {
    let d: f32 = saturate(dot(n.v, l.v));
    return tonemap(d);
}
`
	module, err := ScanModule(source)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decl := module.Decls[0]
	for _, name := range []string{"Normal", "LightDir", "Color", "tonemap", "dot", "saturate"} {
		if !hasRef(decl, name) {
			t.Errorf("Expected shade to reference %q, got %v", name, decl.Refs)
		}
	}
	// Parameter names and member access are not references.
	for _, name := range []string{"n", "l", "v"} {
		if hasRef(decl, name) {
			t.Errorf("Did not expect shade to reference %q", name)
		}
	}
}

func TestScanModuleWorkgroupSizeRef(t *testing.T) {
	source := `
const BLOCK: u32 = 64u;

@compute @workgroup_size(BLOCK)
fn cs_main() {}
`
	module, err := ScanModule(source)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decl, ok := module.Lookup("cs_main")
	if !ok {
		t.Fatal("Expected cs_main declaration")
	}
	if !hasRef(decl, "BLOCK") {
		t.Errorf("Expected cs_main to reference BLOCK via @workgroup_size, got %v", decl.Refs)
	}
}

func TestScanModuleBuiltinAttrArgsNotRefs(t *testing.T) {
	source := `
fn vs(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`
	module, err := ScanModule(source)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decl := module.Decls[0]
	if hasRef(decl, "vertex_index") || hasRef(decl, "position") {
		t.Errorf("@builtin arguments must not be references, got %v", decl.Refs)
	}
}

func TestScanModuleDirectivesSkipped(t *testing.T) {
	source := `
enable f16;
diagnostic(off, derivative_uniformity);
const x: f32 = 1.0;
`
	module, err := ScanModule(source)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(module.Decls) != 1 || module.Decls[0].Name != "x" {
		t.Errorf("Expected only the const declaration, got %v", module.Decls)
	}
}

func TestScanModuleErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced fn braces", "fn f() { if true {"},
		{"struct without name", "struct { x: f32 }"},
		{"missing semicolon", "const x: f32 = 1.0"},
		{"stray token", "42"},
		{"fn without body", "fn f() -> f32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ScanModule(tt.input); err == nil {
				t.Errorf("ScanModule(%q): expected error", tt.input)
			}
		})
	}
}

func hasRef(d Decl, name string) bool {
	for _, r := range d.Refs {
		if r.Name == name {
			return true
		}
	}
	return false
}
