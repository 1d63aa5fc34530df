package memory

import (
	"testing"

	"github.com/forge-lang/forgec/internal/typesys"
)

func TestCanTransformGroupContainment(t *testing.T) {
	// Retained -> Shared outside an escape block: distinct groups, Retained
	// is not Owned, so this must be rejected as MixedMemoryGroups.
	ok, kind := CanTransform(typesys.WrapperRetained, typesys.WrapperShared, StateValid, false)
	if ok {
		t.Fatal("Retained -> Shared should be rejected outside an escape block")
	}
	if kind != MixedMemoryGroups {
		t.Errorf("got error kind %s, want MixedMemoryGroups", kind)
	}
}

func TestCanTransformOwnedIsUniversalSource(t *testing.T) {
	for _, to := range []typesys.WrapperKind{
		typesys.WrapperHijacked, typesys.WrapperRetained, typesys.WrapperShared, typesys.WrapperSnatched,
	} {
		ok, _ := CanTransform(typesys.WrapperOwned, to, StateValid, false)
		if !ok {
			t.Errorf("Owned -> %s should be permitted (Owned is the universal source)", to)
		}
	}
}

func TestCanTransformEscapeBlockIsHatch(t *testing.T) {
	ok, _ := CanTransform(typesys.WrapperRetained, typesys.WrapperShared, StateValid, true)
	if !ok {
		t.Error("any transition should be permitted inside an escape block")
	}
	ok, _ = CanTransform(typesys.WrapperRetained, typesys.WrapperShared, StateInvalidated, true)
	if !ok {
		t.Error("an invalidated object should still transform inside an escape block")
	}
}

func TestCanTransformHijackedToHijackedForbidden(t *testing.T) {
	ok, kind := CanTransform(typesys.WrapperHijacked, typesys.WrapperHijacked, StateValid, false)
	if ok {
		t.Fatal("Hijacked -> Hijacked must be forbidden (exclusivity)")
	}
	if kind != InvalidTransformation {
		t.Errorf("got %s, want InvalidTransformation", kind)
	}
}

func TestCanTransformUseAfterInvalidation(t *testing.T) {
	ok, kind := CanTransform(typesys.WrapperOwned, typesys.WrapperHijacked, StateInvalidated, false)
	if ok {
		t.Fatal("transforming an invalidated object outside an escape block must fail")
	}
	if kind != UseAfterInvalidation {
		t.Errorf("got %s, want UseAfterInvalidation", kind)
	}
}
