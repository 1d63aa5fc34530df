// Package source tracks source positions and accumulates diagnostics for the
// surrounding driver. The analyzer packages never format text themselves;
// they emit structured errors, and this package turns those into
// human-readable output when a caller (the CLI) wants it.
package source

import "fmt"

// Position is a single point in source text.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// IsValid reports whether p carries a real location.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String renders "file:line:col", or "line:col" when File is empty.
func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range [Start, End) in a single file.
type Span struct {
	Start Position
	End   Position
}

// String renders a span compactly, collapsing same-line spans.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s-%d", s.Start.String(), s.End.Column)
	}
	return fmt.Sprintf("%s-%d:%d", s.Start.String(), s.End.Line, s.End.Column)
}

// Diagnostic is a single reported problem, independent of which component
// (memory analyzer or semantic analyzer) raised it.
type Diagnostic struct {
	Pos     Position
	Kind    string
	Message string
}

// Error implements the error interface so a Diagnostic can travel through
// ordinary Go error-handling code when convenient.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos.String(), d.Kind, d.Message)
}

// Bag accumulates diagnostics from one or more passes over a program. It is
// never used for control flow — callers collect into it and read it back at
// the end, matching the accumulate-don't-throw error policy of the core.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(pos Position, kind, format string, args ...interface{}) {
	b.items = append(b.items, Diagnostic{
		Pos:     pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddAll merges another bag's diagnostics into this one, in order.
func (b *Bag) AddAll(other []Diagnostic) {
	b.items = append(b.items, other...)
}

// All returns every diagnostic collected so far, in report order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// Len returns the number of diagnostics collected.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether the bag is non-empty. The core has no separate
// warning tier, so any diagnostic counts.
func (b *Bag) HasErrors() bool {
	return len(b.items) > 0
}

// Format renders a diagnostic with a source line and a caret, in the
// teacher's CompilerError.Format style, for CLI output.
func Format(d Diagnostic, sourceLine string) string {
	if sourceLine == "" {
		return d.Error()
	}

	caret := ""
	for i := 0; i < d.Pos.Column-1; i++ {
		caret += " "
	}
	caret += "^"

	return fmt.Sprintf("%s: %s: %s\n  %s\n  %s", d.Pos.String(), d.Kind, d.Message, sourceLine, caret)
}
