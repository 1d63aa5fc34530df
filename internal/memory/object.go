package memory

import (
	"fmt"

	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/typesys"
)

// MemoryObject is one tracked value's ownership record.
type MemoryObject struct {
	Name          string
	BaseType      string
	Kind          typesys.WrapperKind
	State         ObjectState
	RefCount      int
	SourceLoc     source.Position
	InvalidatedBy string
	Policy        LockingPolicy
}

// TypeName renders the object's current TypeInfo-style wrapper encoding,
// e.g. "Shared<Widget,Mutex>" or plain "Widget" for Owned.
func (o *MemoryObject) TypeName() string {
	if o.Kind == typesys.WrapperOwned {
		return o.BaseType
	}
	if o.Kind == typesys.WrapperShared || (o.Kind == typesys.WrapperTracked && o.Policy != PolicyNone) {
		return typesys.EncodeWrapper(o.Kind, o.BaseType, o.Policy.String())
	}
	return typesys.EncodeWrapper(o.Kind, o.BaseType)
}

// ErrorKind tags a MemoryError's category, matching spec.md's taxonomy.
type ErrorKind int

const (
	UseAfterInvalidation ErrorKind = iota
	MixedMemoryGroups
	InvalidTransformation
	ReferenceCountError
	ContainerMoveError
	UsurpingViolation
	DangerBlockViolation
	ThreadSafetyViolation
	ReadOnlyMutation
	DuplicateHijackInCall
)

func (k ErrorKind) String() string {
	switch k {
	case UseAfterInvalidation:
		return "UseAfterInvalidation"
	case MixedMemoryGroups:
		return "MixedMemoryGroups"
	case InvalidTransformation:
		return "InvalidTransformation"
	case ReferenceCountError:
		return "ReferenceCountError"
	case ContainerMoveError:
		return "ContainerMoveError"
	case UsurpingViolation:
		return "UsurpingViolation"
	case DangerBlockViolation:
		return "DangerBlockViolation"
	case ThreadSafetyViolation:
		return "ThreadSafetyViolation"
	case ReadOnlyMutation:
		return "ReadOnlyMutation"
	case DuplicateHijackInCall:
		return "DuplicateHijackInCall"
	default:
		return "UnknownMemoryError"
	}
}

// Error is a structured memory-analyzer diagnostic.
type Error struct {
	Object  string
	Message string
	Pos     source.Position
	Kind    ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Object, e.Message)
}

func newError(kind ErrorKind, obj *MemoryObject, pos source.Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Object:  obj.Name,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}
