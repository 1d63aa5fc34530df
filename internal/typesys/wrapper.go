package typesys

import "strings"

// WrapperKind tags the ownership (or scoped-access) discipline a type name
// encodes. Owned/Hijacked/Retained/Tracked/Shared/Snatched are the six
// memory-ownership kinds of spec.md §4.3; Viewed/Inspected/Seized are the
// read-only/shared-read scoped-access kinds of §4.4 (a "hijacking"
// statement reuses WrapperHijacked directly, since an exclusive borrow and
// an exclusive ownership transfer share the same type-name meaning).
type WrapperKind int

const (
	WrapperOwned WrapperKind = iota
	WrapperHijacked
	WrapperRetained
	WrapperTracked
	WrapperShared
	WrapperSnatched
	WrapperViewed
	WrapperInspected
	WrapperSeized
)

func (k WrapperKind) String() string {
	switch k {
	case WrapperOwned:
		return "Owned"
	case WrapperHijacked:
		return "Hijacked"
	case WrapperRetained:
		return "Retained"
	case WrapperTracked:
		return "Tracked"
	case WrapperShared:
		return "Shared"
	case WrapperSnatched:
		return "Snatched"
	case WrapperViewed:
		return "Viewed"
	case WrapperInspected:
		return "Inspected"
	case WrapperSeized:
		return "Seized"
	default:
		return "unknown"
	}
}

var wrapperByName = map[string]WrapperKind{
	"Owned":     WrapperOwned,
	"Hijacked":  WrapperHijacked,
	"Retained":  WrapperRetained,
	"Tracked":   WrapperTracked,
	"Shared":    WrapperShared,
	"Snatched":  WrapperSnatched,
	"Viewed":    WrapperViewed,
	"Inspected": WrapperInspected,
	"Seized":    WrapperSeized,
}

// ParseWrapperKind looks up a WrapperKind by its encoded name prefix.
func ParseWrapperKind(s string) (WrapperKind, bool) {
	k, ok := wrapperByName[s]
	return k, ok
}

// EncodeWrapper renders "Kind<base>", optionally with a locking-policy
// second argument for Shared ("Shared<base,policy>"), matching the
// TypeInfo.FullName encoding of generic arguments.
func EncodeWrapper(kind WrapperKind, base string, extra ...string) string {
	parts := append([]string{base}, extra...)
	return kind.String() + "<" + strings.Join(parts, ",") + ">"
}

// DecodeWrapper reverses EncodeWrapper: given "Kind<base,extra...>" it
// returns the kind, the base type name, any extra arguments (e.g. a
// locking-policy name for Shared/Tracked), and whether the name matched a
// known wrapper kind at all. This round-trips with EncodeWrapper for every
// wrapper kind and base name (spec.md Testable Property 6).
func DecodeWrapper(name string) (kind WrapperKind, base string, extra []string, ok bool) {
	lt := strings.IndexByte(name, '<')
	if lt < 0 || !strings.HasSuffix(name, ">") {
		return 0, "", nil, false
	}
	prefix := name[:lt]
	k, known := wrapperByName[prefix]
	if !known {
		return 0, "", nil, false
	}
	inner := name[lt+1 : len(name)-1]
	args := splitTopLevel(inner)
	if len(args) == 0 {
		return 0, "", nil, false
	}
	return k, args[0], args[1:], true
}

// splitTopLevel splits a comma-separated argument list, respecting nested
// "<...>" groups so that e.g. "Retained<Tracked<T>>" splits correctly.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// IsReadOnlyWrapper reports whether name is a Viewed<...> or Inspected<...>
// wrapper type name, used by the semantic analyzer to reject mutation
// through a read-only loan (spec.md §4.4 assignment rules).
func IsReadOnlyWrapper(name string) bool {
	return strings.HasPrefix(name, "Viewed<") || strings.HasPrefix(name, "Inspected<")
}
