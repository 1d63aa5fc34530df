package memory

import (
	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/typesys"
)

// CheckThreadSafety validates an object at a call site the semantic
// analyzer has tagged as crossing a thread boundary (a call into a
// thread-spawning intrinsic). Since there is no real concurrency here, the
// check is purely type-name-driven: the object must be Shared with policy
// Mutex or MultiReadLock. Retained or Tracked at such a site is a
// ThreadSafetyViolation, as is any other kind.
func CheckThreadSafety(obj *MemoryObject, pos source.Position) *Error {
	if obj.Kind == typesys.WrapperShared && (obj.Policy == PolicyMutex || obj.Policy == PolicyMultiReadLock) {
		return nil
	}
	return newError(ThreadSafetyViolation, obj, pos,
		"%q (%s) crosses a thread boundary but is not Shared<_, Mutex|MultiReadLock>", obj.Name, obj.TypeName())
}
