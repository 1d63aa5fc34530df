package semantic

import (
	"fmt"

	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/source"
)

// ErrorKind tags a semantic-analyzer diagnostic. The memory-analyzer kinds
// are repeated here by name (not imported as memory.ErrorKind) so that a
// single flat taxonomy is exposed to callers regardless of which component
// raised the error, matching spec.md §7.
type ErrorKind string

const (
	KindUseAfterInvalidation ErrorKind = "UseAfterInvalidation"
	KindMixedMemoryGroups    ErrorKind = "MixedMemoryGroups"
	KindInvalidTransformation ErrorKind = "InvalidTransformation"
	KindReferenceCountError  ErrorKind = "ReferenceCountError"
	KindContainerMoveError   ErrorKind = "ContainerMoveError"
	KindUsurpingViolation    ErrorKind = "UsurpingViolation"
	KindDangerBlockViolation ErrorKind = "DangerBlockViolation"
	KindThreadSafetyViolation ErrorKind = "ThreadSafetyViolation"
	KindInlineTokenEscape    ErrorKind = "InlineTokenEscape"
	KindReadOnlyMutation     ErrorKind = "ReadOnlyMutation"
	KindFallibleLockOutsideWhen ErrorKind = "FallibleLockOutsideWhen"
	KindDuplicateHijackInCall ErrorKind = "DuplicateHijackInCall"
	KindTypeError            ErrorKind = "TypeError"
	KindThrowViolation       ErrorKind = "ThrowViolation"
	KindReservedPrefix       ErrorKind = "ReservedPrefix"
	KindDuplicateDeclaration ErrorKind = "DuplicateDeclaration"
)

// Error is a structured semantic-analysis diagnostic.
type Error struct {
	Pos     source.Position
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Pos)
}

func newErr(kind ErrorKind, pos source.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// fromMemoryError converts a *memory.Error into a *semantic.Error,
// preserving its kind by name.
func fromMemoryError(me *memory.Error) *Error {
	return &Error{Kind: ErrorKind(me.Kind.String()), Pos: me.Pos, Message: me.Message}
}
