// Package wgsl provides lightweight WGSL (WebGPU Shading Language) source
// scanning for shader composition.
//
// Unlike a full compiler frontend, this package does not build an expression
// AST. Composition only needs the module-level structure of a translation
// unit:
//
//   - Scanner: Tokenizes WGSL source into identifiers, literals, and
//     punctuation, with source spans
//   - ScanModule: Extracts top-level declarations (fn, struct, var, const,
//     override, alias) together with the names they reference
//   - Validate: Checks that every referenced name resolves to a top-level
//     declaration or a WGSL builtin
//
// # Usage
//
// To scan and structurally validate a WGSL translation unit:
//
//	module, err := wgsl.ScanModule(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if errs := wgsl.Validate(module, source); errs.HasErrors() {
//	    fmt.Println(errs.FormatAll())
//	}
//
// # WGSL Specification
//
// The scanned subset follows the WGSL specification:
// https://www.w3.org/TR/WGSL/
package wgsl
