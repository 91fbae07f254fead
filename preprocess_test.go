package oil

import (
	"strings"
	"testing"
)

func TestPreprocessIfdef(t *testing.T) {
	source := `fn base() -> f32 { return 1.0; }
#ifdef EXTRA
fn extra() -> f32 { return 2.0; }
#endif`

	tests := []struct {
		name      string
		defs      Defines
		wantExtra bool
	}{
		{"activated", Defines{"EXTRA": DefBool(true)}, true},
		{"declared but inactive", Defines{"EXTRA": DefBool(false)}, false},
		{"absent", Defines{}, false},
		{"valued int counts as defined", Defines{"EXTRA": DefInt(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pre, err := preprocess(source, tt.defs)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := strings.Contains(pre.Source, "fn extra"); got != tt.wantExtra {
				t.Errorf("Expected extra included=%v, got=%v:\n%s", tt.wantExtra, got, pre.Source)
			}
			if !strings.Contains(pre.Source, "fn base") {
				t.Error("Unconditional code must survive")
			}
		})
	}
}

func TestPreprocessIfndefElse(t *testing.T) {
	source := `#ifndef HIGH_QUALITY
const SAMPLES: u32 = 4u;
#else
const SAMPLES: u32 = 64u;
#endif`

	pre, err := preprocess(source, Defines{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(pre.Source, "= 4u") || strings.Contains(pre.Source, "= 64u") {
		t.Errorf("Expected the #ifndef branch, got:\n%s", pre.Source)
	}

	pre, err = preprocess(source, Defines{"HIGH_QUALITY": DefBool(true)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(pre.Source, "= 64u") || strings.Contains(pre.Source, "= 4u") {
		t.Errorf("Expected the #else branch, got:\n%s", pre.Source)
	}
}

func TestPreprocessElseIfdef(t *testing.T) {
	source := `#ifdef A
const which: i32 = 1;
#else ifdef B
const which: i32 = 2;
#else
const which: i32 = 3;
#endif`

	tests := []struct {
		defs Defines
		want string
	}{
		{Defines{"A": DefBool(true), "B": DefBool(true)}, "= 1"},
		{Defines{"B": DefBool(true)}, "= 2"},
		{Defines{}, "= 3"},
	}

	for _, tt := range tests {
		pre, err := preprocess(source, tt.defs)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.Contains(pre.Source, tt.want) {
			t.Errorf("defs %v: expected branch %q, got:\n%s", tt.defs, tt.want, pre.Source)
		}
		if strings.Count(strings.TrimSpace(pre.Source), "const") != 1 {
			t.Errorf("defs %v: expected exactly one surviving branch, got:\n%s", tt.defs, pre.Source)
		}
	}
}

func TestPreprocessIfComparison(t *testing.T) {
	source := `#if MAX_LIGHTS > 4
const clustered: bool = true;
#endif`

	pre, err := preprocess(source, Defines{"MAX_LIGHTS": DefInt(8)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(pre.Source, "clustered") {
		t.Errorf("Expected 8 > 4 to hold, got:\n%s", pre.Source)
	}

	pre, err = preprocess(source, Defines{"MAX_LIGHTS": DefInt(2)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(pre.Source, "clustered") {
		t.Errorf("Expected 2 > 4 to filter the span, got:\n%s", pre.Source)
	}
}

func TestPreprocessNestedConditionals(t *testing.T) {
	source := `#ifdef OUTER
#ifdef INNER
const both: i32 = 1;
#endif
const outer_only: i32 = 2;
#endif`

	pre, err := preprocess(source, Defines{"OUTER": DefBool(true)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(pre.Source, "both") {
		t.Error("Inner span must stay filtered without INNER")
	}
	if !strings.Contains(pre.Source, "outer_only") {
		t.Error("Outer span must survive")
	}

	// Inner define alone must not leak through an inactive outer span.
	pre, err = preprocess(source, Defines{"INNER": DefBool(true)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(pre.Source, "both") || strings.Contains(pre.Source, "outer_only") {
		t.Errorf("Nothing may survive an inactive outer span, got:\n%s", pre.Source)
	}
}

func TestPreprocessImports(t *testing.T) {
	source := `#import lighting
#ifdef SHADOWS
#import shadow_sampling
#endif
fn main_fs() {}`

	pre, err := preprocess(source, Defines{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(pre.Imports) != 1 || pre.Imports[0].Path != "lighting" {
		t.Fatalf("Expected only the unconditional import, got %v", pre.Imports)
	}
	if pre.Imports[0].Span.Start.Line != 1 {
		t.Errorf("Expected import span on line 1, got %d", pre.Imports[0].Span.Start.Line)
	}

	pre, err = preprocess(source, Defines{"SHADOWS": DefBool(true)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(pre.Imports) != 2 || pre.Imports[1].Path != "shadow_sampling" {
		t.Fatalf("Expected the guarded import to activate, got %v", pre.Imports)
	}
}

func TestPreprocessImportPath(t *testing.T) {
	pre, err := preprocess("#define_import_path pbr::lighting\nfn f() {}", Defines{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pre.ImportPath != "pbr::lighting" {
		t.Errorf("Expected import path pbr::lighting, got %q", pre.ImportPath)
	}
}

func TestPreprocessLineNumbersPreserved(t *testing.T) {
	source := "#ifdef X\nfiltered\n#endif\nfn f() {}"
	pre, err := preprocess(source, Defines{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(pre.Source, "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(lines))
	}
	if lines[3] != "fn f() {}" {
		t.Errorf("Expected surviving code to keep its line, got %q on line 4", lines[3])
	}
}

func TestPreprocessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		defs   Defines
	}{
		{"unterminated ifdef", "#ifdef X\ncode", Defines{}},
		{"stray endif", "#endif", Defines{}},
		{"stray else", "#else", Defines{}},
		{"double else", "#ifdef X\n#else\n#else\n#endif", Defines{}},
		{"unknown directive", "#include foo", Defines{}},
		{"ifdef without symbol", "#ifdef\n#endif", Defines{}},
		{"import without path", "#import", Defines{}},
		{"if unknown symbol", "#if MISSING == 1\n#endif", Defines{}},
		{"if bool compared to int", "#if X == 3\n#endif", Defines{"X": DefBool(true)}},
		{"if bool ordered op", "#if X < true\n#endif", Defines{"X": DefBool(true)}},
		{"if int bad literal", "#if N == banana\n#endif", Defines{"N": DefInt(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := preprocess(tt.source, tt.defs); err == nil {
				t.Errorf("Expected error for %q", tt.source)
			}
		})
	}
}

func TestPreprocessErrorSpan(t *testing.T) {
	_, err := preprocess("fn f() {}\n  #endif", Defines{})
	if err == nil {
		t.Fatal("Expected error")
	}
	if err.Span.Start.Line != 2 || err.Span.Start.Column != 3 {
		t.Errorf("Expected span 2:3 at the '#', got %d:%d", err.Span.Start.Line, err.Span.Start.Column)
	}
}
