package oil

import (
	"fmt"
	"strings"

	"github.com/gogpu/oil/wgsl"
)

// DiagnosticKind distinguishes the composition failure taxonomy.
type DiagnosticKind uint8

const (
	// RegistrationFailure: a composable module failed to parse or validate
	// at registration time. The module was not inserted.
	RegistrationFailure DiagnosticKind = iota

	// UnresolvedImport: a source imports a module name the registry does
	// not contain.
	UnresolvedImport

	// ImportCycle: the import closure contains a cycle.
	ImportCycle

	// DuplicateSymbol: two units in the closure declare the same top-level
	// name.
	DuplicateSymbol

	// ValidationFailed: the merged unit is not structurally valid.
	ValidationFailed
)

// String returns the kind's name.
func (k DiagnosticKind) String() string {
	switch k {
	case RegistrationFailure:
		return "RegistrationFailure"
	case UnresolvedImport:
		return "UnresolvedImport"
	case ImportCycle:
		return "ImportCycle"
	case DuplicateSymbol:
		return "DuplicateSymbol"
	case ValidationFailed:
		return "ValidationFailed"
	default:
		return "Unknown"
	}
}

// Diagnostic is a structured composition failure. It implements error; a
// failed operation returns it as its error value and the registry is left
// untouched.
type Diagnostic struct {
	Kind DiagnosticKind

	// Modules names the implicated module(s). The first entry is the unit
	// the failure surfaced in; "" stands for the main source of the
	// request.
	Modules []string

	// Span locates the failure inside the implicated unit, when known.
	Span wgsl.Span

	// Source is the text of the implicated unit when it is not in the
	// registry (the main source, or a module that failed registration).
	Source string

	// Cycle lists the module names forming an import cycle, in walk
	// order, for ImportCycle diagnostics.
	Cycle []string

	// Message is the headline description.
	Message string

	// Cause is the underlying error, if the failure wraps one.
	Cause error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", d.Kind, d.Message)
	if d.Cause != nil {
		fmt.Fprintf(&sb, ": %v", d.Cause)
	}
	return sb.String()
}

// Unwrap exposes the cause chain to errors.Is and errors.As.
func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// moduleLabel names a unit in rendered output; the main source of a
// request has no registry name.
func moduleLabel(name string) string {
	if name == "" {
		return "main source"
	}
	return fmt.Sprintf("module %q", name)
}
