package oil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/oil/wgsl"
)

// Reporter renders diagnostics for logging and CLI surfaces. It is
// read-only over the registry and never fails: when span or source
// information is missing it degrades to a plain textual dump.
type Reporter struct{}

// Render formats a diagnostic with the offending module name, a source
// excerpt around the failing span when one is available, and the nested
// cause chain. The registry supplies module sources for excerpts when the
// diagnostic does not carry its own.
func (Reporter) Render(d *Diagnostic, registry *Registry) string {
	if d == nil {
		return "no diagnostic"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error[%s]: %s\n", d.Kind, d.Message)

	if len(d.Modules) > 0 {
		labels := make([]string, len(d.Modules))
		for i, name := range d.Modules {
			labels[i] = moduleLabel(name)
		}
		fmt.Fprintf(&sb, "  in: %s\n", strings.Join(labels, ", "))
	}
	if len(d.Cycle) > 0 {
		fmt.Fprintf(&sb, "  cycle: %s\n", joinCycle(d.Cycle))
	}

	if !d.Span.IsZero() {
		fmt.Fprintf(&sb, "  --> line %d:%d\n", d.Span.Start.Line, d.Span.Start.Column)
		if excerpt := wgsl.Excerpt(renderSource(d, registry), d.Span); excerpt != "" {
			sb.WriteString(excerpt)
		}
	}

	for cause := d.Cause; cause != nil; cause = errors.Unwrap(cause) {
		switch c := cause.(type) {
		case wgsl.SourceErrors:
			sb.WriteString("caused by:\n")
			sb.WriteString(indent(c.FormatAll()))
		case *wgsl.SourceError:
			sb.WriteString("caused by:\n")
			sb.WriteString(indent(c.FormatWithContext()))
		default:
			fmt.Fprintf(&sb, "caused by: %v\n", cause)
		}
	}

	return sb.String()
}

// renderSource picks the source text a span refers to: the one carried by
// the diagnostic, or the implicated module's registered source.
func renderSource(d *Diagnostic, registry *Registry) string {
	if d.Source != "" {
		return d.Source
	}
	if registry == nil {
		return ""
	}
	for _, name := range d.Modules {
		if name == "" {
			continue
		}
		if m, ok := registry.Get(name); ok {
			return m.source
		}
	}
	return ""
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
