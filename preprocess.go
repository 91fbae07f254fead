package oil

import (
	"strconv"
	"strings"

	"github.com/gogpu/oil/wgsl"
)

// The preprocessor implements the composition dialect understood inside
// shader sources:
//
//	#define_import_path path     names the module from inside the source
//	#import path                 pulls in a registered composable module
//	#ifdef SYM / #ifndef SYM     presence-conditional span
//	#if SYM == 3                 value-conditional span (==, !=, <, <=, >, >=)
//	#else / #else ifdef SYM      alternate branches
//	#endif                       closes a conditional span
//
// Evaluation is a pure function of (source, defines): it returns a filtered
// copy and never mutates its inputs. Inactive and directive lines are
// replaced with empty lines so that spans in later scanning still point at
// the original source.

// importStmt records one surviving #import and where it appeared.
type importStmt struct {
	Path string
	Span wgsl.Span
}

// preprocessed is the outcome of running the preprocessor over one unit.
type preprocessed struct {
	Source     string // filtered source, line numbers preserved
	Imports    []importStmt
	ImportPath string // from #define_import_path, "" if absent
}

// condFrame tracks one open #ifdef/#ifndef/#if region.
type condFrame struct {
	active       bool // current branch holds
	taken        bool // some branch already held
	parentActive bool
	seenElse     bool // a bare #else closed the branch list
	span         wgsl.Span
}

func preprocess(source string, defs Defines) (*preprocessed, *wgsl.SourceError) {
	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))
	result := &preprocessed{}

	var stack []condFrame
	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].parentActive && stack[len(stack)-1].active
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				out[i] = line
			}
			continue
		}

		span := directiveSpan(line, i+1)
		fields := strings.Fields(strings.TrimPrefix(trimmed, "#"))
		if len(fields) == 0 {
			return nil, wgsl.NewSourceError("empty preprocessor directive", span, source)
		}

		switch fields[0] {
		case "define_import_path":
			if len(fields) != 2 {
				return nil, wgsl.NewSourceError("malformed #define_import_path: expected exactly one path", span, source)
			}
			if active() {
				result.ImportPath = fields[1]
			}

		case "import":
			if len(fields) != 2 {
				return nil, wgsl.NewSourceError("malformed #import: expected exactly one module path", span, source)
			}
			if active() {
				result.Imports = append(result.Imports, importStmt{Path: fields[1], Span: span})
			}

		case "ifdef", "ifndef":
			if len(fields) != 2 {
				return nil, wgsl.NewSourceErrorf(span, source, "malformed #%s: expected exactly one symbol", fields[0])
			}
			hold := defs.defined(fields[1])
			if fields[0] == "ifndef" {
				hold = !hold
			}
			stack = append(stack, condFrame{
				active:       hold,
				taken:        hold,
				parentActive: active(),
				span:         span,
			})

		case "if":
			hold, err := evalComparison(fields[1:], defs, span, source)
			if err != nil {
				return nil, err
			}
			stack = append(stack, condFrame{
				active:       hold,
				taken:        hold,
				parentActive: active(),
				span:         span,
			})

		case "else":
			if len(stack) == 0 {
				return nil, wgsl.NewSourceError("#else without matching #ifdef", span, source)
			}
			frame := &stack[len(stack)-1]
			if frame.seenElse {
				return nil, wgsl.NewSourceError("#else after #else", span, source)
			}
			switch {
			case len(fields) == 1:
				frame.active = !frame.taken
				frame.taken = true
				frame.seenElse = true
			case fields[1] == "ifdef" || fields[1] == "ifndef":
				if len(fields) != 3 {
					return nil, wgsl.NewSourceErrorf(span, source, "malformed #else %s: expected exactly one symbol", fields[1])
				}
				hold := defs.defined(fields[2])
				if fields[1] == "ifndef" {
					hold = !hold
				}
				frame.active = !frame.taken && hold
				frame.taken = frame.taken || frame.active
			case fields[1] == "if":
				hold, err := evalComparison(fields[2:], defs, span, source)
				if err != nil {
					return nil, err
				}
				frame.active = !frame.taken && hold
				frame.taken = frame.taken || frame.active
			default:
				return nil, wgsl.NewSourceErrorf(span, source, "malformed #else: unexpected %q", fields[1])
			}

		case "endif":
			if len(stack) == 0 {
				return nil, wgsl.NewSourceError("#endif without matching #ifdef", span, source)
			}
			stack = stack[:len(stack)-1]

		default:
			return nil, wgsl.NewSourceErrorf(span, source, "unknown preprocessor directive #%s", fields[0])
		}
	}

	if len(stack) > 0 {
		return nil, wgsl.NewSourceError("unterminated conditional: missing #endif", stack[len(stack)-1].span, source)
	}

	result.Source = strings.Join(out, "\n")
	return result, nil
}

// evalComparison evaluates "#if SYM OP LITERAL". The literal must parse in
// the type of the define it is compared against.
func evalComparison(fields []string, defs Defines, span wgsl.Span, source string) (bool, *wgsl.SourceError) {
	if len(fields) != 3 {
		return false, wgsl.NewSourceError("malformed #if: expected \"#if SYMBOL OP VALUE\"", span, source)
	}
	sym, op, lit := fields[0], fields[1], fields[2]

	val, ok := defs[sym]
	if !ok {
		return false, wgsl.NewSourceErrorf(span, source, "unknown shader def %q in #if", sym)
	}

	switch v := val.(type) {
	case DefBool:
		want, err := strconv.ParseBool(lit)
		if err != nil {
			return false, wgsl.NewSourceErrorf(span, source, "shader def %q is a bool, cannot compare against %q", sym, lit)
		}
		switch op {
		case "==":
			return bool(v) == want, nil
		case "!=":
			return bool(v) != want, nil
		default:
			return false, wgsl.NewSourceErrorf(span, source, "operator %q is not valid for bool shader def %q", op, sym)
		}

	case DefInt:
		want, err := strconv.ParseInt(lit, 0, 32)
		if err != nil {
			return false, wgsl.NewSourceErrorf(span, source, "shader def %q is an i32, cannot compare against %q", sym, lit)
		}
		return compareOrdered(int64(v), want, op, span, source)

	case DefUInt:
		want, err := strconv.ParseUint(strings.TrimSuffix(lit, "u"), 0, 32)
		if err != nil {
			return false, wgsl.NewSourceErrorf(span, source, "shader def %q is a u32, cannot compare against %q", sym, lit)
		}
		return compareOrdered(int64(v), int64(want), op, span, source)

	default:
		return false, wgsl.NewSourceErrorf(span, source, "shader def %q has unsupported value type", sym)
	}
}

func compareOrdered(have, want int64, op string, span wgsl.Span, source string) (bool, *wgsl.SourceError) {
	switch op {
	case "==":
		return have == want, nil
	case "!=":
		return have != want, nil
	case "<":
		return have < want, nil
	case "<=":
		return have <= want, nil
	case ">":
		return have > want, nil
	case ">=":
		return have >= want, nil
	default:
		return false, wgsl.NewSourceErrorf(span, source, "unknown comparison operator %q", op)
	}
}

// directiveSpan points at the '#' of a directive line.
func directiveSpan(line string, lineNum int) wgsl.Span {
	col := strings.Index(line, "#") + 1
	if col < 1 {
		col = 1
	}
	return wgsl.Span{
		Start: wgsl.Position{Line: lineNum, Column: col},
		End:   wgsl.Position{Line: lineNum, Column: col + 1},
	}
}
