package wgsl

// Position represents a position in source code.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

// Span represents a source code location span.
type Span struct {
	Start Position
	End   Position
}

// IsZero reports whether the span carries no location information.
func (s Span) IsZero() bool {
	return s.Start.Line == 0
}

// LineSpan returns a span covering an entire line, for diagnostics that
// implicate a line rather than a token.
func LineSpan(line int) Span {
	return Span{
		Start: Position{Line: line, Column: 1},
		End:   Position{Line: line, Column: 1},
	}
}
