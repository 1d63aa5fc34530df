package memory

import "github.com/forge-lang/forgec/internal/typesys"

// CanTransform implements the transformation matrix of spec.md §4.3: a
// transform from wrapper `from` to wrapper `to` is permitted exactly when
//
//  1. the object's current state is Valid, or the analyzer is inside an
//     escape (danger) block;
//  2. inside an escape block, any transition is accepted outright;
//  3. otherwise `from` and `to` must lie in the same group, or `from` must
//     be Owned (Owned is the universal source);
//  4. the kind-specific rules: Hijacked -> Hijacked is always forbidden,
//     even when the group/state checks would allow it, since two live
//     exclusive borrows of the same object can never coexist; and a few
//     cross-group transitions are permitted despite rule 3 — Retained or
//     Shared -> Tracked (track), Tracked -> Retained or Shared (recover),
//     and Retained or Shared -> Owned (steal).
//
// The reference-count and locking-policy preconditions for individual
// operations (steal's count==1 rule, share's policy-equality rule, and so
// on) are enforced by the operation functions in ops.go, not here: this
// function only answers the geometric "is W -> W' ever reachable" question.
func CanTransform(from, to typesys.WrapperKind, st ObjectState, inEscape bool) (bool, ErrorKind) {
	if st != StateValid && !inEscape {
		return false, UseAfterInvalidation
	}
	if inEscape {
		return true, 0
	}
	if from == typesys.WrapperHijacked && to == typesys.WrapperHijacked {
		return false, InvalidTransformation
	}
	switch {
	case (from == typesys.WrapperRetained || from == typesys.WrapperShared) &&
		(to == typesys.WrapperTracked || to == typesys.WrapperOwned):
		return true, 0
	case from == typesys.WrapperTracked && (to == typesys.WrapperRetained || to == typesys.WrapperShared):
		return true, 0
	}
	if GroupOf(from) != GroupOf(to) && from != typesys.WrapperOwned {
		return false, MixedMemoryGroups
	}
	return true, 0
}
