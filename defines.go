package oil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefValue is the value of a shader define. The three concrete kinds,
// DefBool, DefInt, and DefUInt, mirror the value types a WGSL-style
// preprocessor can compare against in #if directives.
type DefValue interface {
	fmt.Stringer
	defValue()
}

// DefBool is a boolean shader define. A define that is merely declared
// (present but inactive) is DefBool(false).
type DefBool bool

func (DefBool) defValue() {}

// String returns "true" or "false".
func (v DefBool) String() string { return strconv.FormatBool(bool(v)) }

// DefInt is a 32-bit signed integer shader define.
type DefInt int32

func (DefInt) defValue() {}

// String returns the decimal representation.
func (v DefInt) String() string { return strconv.FormatInt(int64(v), 10) }

// DefUInt is a 32-bit unsigned integer shader define.
type DefUInt uint32

func (DefUInt) defValue() {}

// String returns the decimal representation.
func (v DefUInt) String() string { return strconv.FormatUint(uint64(v), 10) }

// Defines is a normalized symbol-to-value mapping. It is the only form in
// which defines cross component boundaries: the preprocessor, the registry
// event, and diagnostics all consume this shape.
type Defines map[string]DefValue

// NormalizeDefines builds one mapping from a declared-symbol universe and
// an activated subset:
//
//   - every declared symbol defaults to DefBool(false)
//   - every activated symbol becomes DefBool(true)
//   - every symbol in values gets the supplied value
//
// Activating or valuing a symbol outside the declared universe is
// permitted; if the source never references it the symbol is inert.
func NormalizeDefines(declared, activated []string, values map[string]DefValue) Defines {
	defs := make(Defines, len(declared)+len(activated)+len(values))
	for _, sym := range declared {
		defs[sym] = DefBool(false)
	}
	for _, sym := range activated {
		defs[sym] = DefBool(true)
	}
	for sym, val := range values {
		defs[sym] = val
	}
	return defs
}

// defined reports whether sym counts as defined for #ifdef purposes.
// A declared-but-inactive symbol (DefBool(false)) does not.
func (d Defines) defined(sym string) bool {
	v, ok := d[sym]
	if !ok {
		return false
	}
	if b, isBool := v.(DefBool); isBool {
		return bool(b)
	}
	return true
}

// clone returns a copy so callers cannot mutate a module's stored mapping.
func (d Defines) clone() Defines {
	out := make(Defines, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String renders the mapping as "A=true B=3" in symbol order, for the
// registration event and diagnostics.
func (d Defines) String() string {
	syms := make([]string, 0, len(d))
	for sym := range d {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	var sb strings.Builder
	for i, sym := range syms {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(sym)
		sb.WriteByte('=')
		sb.WriteString(d[sym].String())
	}
	return sb.String()
}
