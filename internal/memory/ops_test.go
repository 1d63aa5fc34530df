package memory

import (
	"testing"

	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/typesys"
)

func owned(name, baseType string) *MemoryObject {
	return &MemoryObject{Name: name, BaseType: baseType, Kind: typesys.WrapperOwned, State: StateValid, RefCount: 1}
}

// TestHijackInvalidatesSource covers Testable Property 1 (S1): hijacking an
// Owned object invalidates the source and yields a Hijacked handle.
func TestHijackInvalidatesSource(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("a", owned("a", "T"))

	got, err := a.Hijack("a", source.Position{Line: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != typesys.WrapperHijacked {
		t.Errorf("expected Hijacked, got %s", got.Kind)
	}

	src, _ := a.Lookup("a")
	if src.State != StateInvalidated {
		t.Error("source should be invalidated after hijack")
	}

	// Using the invalidated source again must fail (Testable Property 2:
	// exclusivity of Hijacked).
	if _, err := a.Hijack("a", source.Position{Line: 2}); err == nil {
		t.Error("expected UseAfterInvalidation hijacking an already-invalidated source")
	} else if err.Kind != UseAfterInvalidation {
		t.Errorf("got %s, want UseAfterInvalidation", err.Kind)
	}
}

func TestHijackHijackedForbidden(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("h", &MemoryObject{Name: "h", BaseType: "T", Kind: typesys.WrapperHijacked, State: StateValid, RefCount: 1})
	if _, err := a.Hijack("h", source.Position{}); err == nil {
		t.Error("expected hijacking an already-Hijacked object to fail")
	}
}

// TestStealRequiresCountOne covers Testable Property 3.
func TestStealRequiresCountOne(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("r", &MemoryObject{Name: "r", BaseType: "T", Kind: typesys.WrapperRetained, State: StateValid, RefCount: 2})

	if _, err := a.Steal("r", source.Position{}); err == nil {
		t.Fatal("expected steal to fail with count 2")
	} else if err.Kind != ReferenceCountError {
		t.Errorf("got %s, want ReferenceCountError", err.Kind)
	}

	obj, _ := a.Lookup("r")
	if obj.Kind != typesys.WrapperRetained || obj.State != StateValid {
		t.Error("a failed steal must leave the object unchanged")
	}

	obj.RefCount = 1
	got, err := a.Steal("r", source.Position{})
	if err != nil {
		t.Fatalf("expected steal to succeed with count 1: %v", err)
	}
	if got.Kind != typesys.WrapperOwned {
		t.Errorf("expected Owned, got %s", got.Kind)
	}
}

func TestStealFromHijackedAlwaysPermitted(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("h", &MemoryObject{Name: "h", BaseType: "T", Kind: typesys.WrapperHijacked, State: StateValid, RefCount: 1})
	if _, err := a.Steal("h", source.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestGroupContainmentOutsideEscape covers Testable Property 4.
func TestGroupContainmentOutsideEscape(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("s", &MemoryObject{Name: "s", BaseType: "T", Kind: typesys.WrapperShared, State: StateValid, RefCount: 1, Policy: PolicyMutex})

	if _, err := a.Track("s", source.Position{}); err != nil {
		t.Fatalf("Shared -> Tracked is same-ish group chain, unexpected error: %v", err)
	}

	a.Declare("r", &MemoryObject{Name: "r", BaseType: "T", Kind: typesys.WrapperRetained, State: StateValid, RefCount: 1})
	if _, err := a.Share("r", PolicyMutex, source.Position{}); err == nil {
		t.Error("Retained -> Shared outside an escape block should fail")
	} else if err.Kind != MixedMemoryGroups {
		t.Errorf("got %s, want MixedMemoryGroups", err.Kind)
	}

	a.InEscape = true
	if _, err := a.Share("r", PolicyMutex, source.Position{}); err != nil {
		t.Errorf("Retained -> Shared inside an escape block should succeed: %v", err)
	}
}

func TestSharePolicyMismatch(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("s", &MemoryObject{Name: "s", BaseType: "T", Kind: typesys.WrapperShared, State: StateValid, RefCount: 1, Policy: PolicyMutex})
	if _, err := a.Share("s", PolicyMultiReadLock, source.Position{}); err == nil {
		t.Error("expected a policy mismatch error")
	}
}

func TestReleaseRejectsDropToZero(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("r", &MemoryObject{Name: "r", BaseType: "T", Kind: typesys.WrapperRetained, State: StateValid, RefCount: 1})
	if err := a.Release("r", source.Position{}); err == nil {
		t.Fatal("expected releasing the last reference to fail")
	} else if err.Kind != ReferenceCountError {
		t.Errorf("got %s, want ReferenceCountError", err.Kind)
	}
}

func TestSnatchAndOwnRequireEscapeBlock(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("a", owned("a", "T"))
	if _, err := a.Snatch("a", source.Position{}); err == nil {
		t.Fatal("snatch outside an escape block must fail")
	} else if err.Kind != DangerBlockViolation {
		t.Errorf("got %s, want DangerBlockViolation", err.Kind)
	}

	a.InEscape = true
	snatched, err := a.Snatch("a", source.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Declare("snatched", snatched)

	a.InEscape = false
	if _, err := a.Own("snatched", source.Position{}); err == nil {
		t.Fatal("own outside an escape block must fail")
	}

	a.InEscape = true
	owned, err := a.Own("snatched", source.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owned.Kind != typesys.WrapperOwned {
		t.Errorf("expected Owned, got %s", owned.Kind)
	}
}

func TestTrackThenRecoverRoundTrip(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("r", &MemoryObject{Name: "r", BaseType: "T", Kind: typesys.WrapperRetained, State: StateValid, RefCount: 1})

	tracked, err := a.Track("r", source.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracked.RefCount != 0 {
		t.Errorf("Tracked object should start at count 0, got %d", tracked.RefCount)
	}

	src, _ := a.Lookup("r")
	if src.State != StateValid {
		t.Error("track must never invalidate its source")
	}

	a.Declare("w", tracked)
	recovered, err := a.Recover("w", source.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recovered.Kind != typesys.WrapperRetained {
		t.Errorf("expected Retained, got %s", recovered.Kind)
	}
}

func TestScopeExitInvalidatesDeclaredObjects(t *testing.T) {
	a := NewAnalyzer()
	a.EnterScope()
	a.Declare("local", owned("local", "T"))
	a.ExitScope()

	if _, ok := a.Lookup("local"); ok {
		t.Error("an object declared in a popped scope should not be visible afterward")
	}
}

// A permanent transform (hijack) performed inside a nested block must stay
// invalidated after that block's scope exits: only a scoped-access
// statement's suspension (InvalidateForScope) should be restored on scope
// exit, never an ownership transfer.
func TestHijackInsideNestedScopeSurvivesScopeExit(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("a", owned("a", "T"))

	a.EnterScope()
	if _, err := a.Hijack("a", source.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored := a.ExitScope()
	if len(restored) != 0 {
		t.Fatalf("expected a permanent hijack not to be registered for scope-exit restoration, got %d entries", len(restored))
	}

	src, _ := a.Lookup("a")
	if src.State != StateInvalidated {
		t.Error("hijacked source must remain invalidated after the enclosing scope exits")
	}
}

// InvalidateForScope (the scoped-access suspend path) is restored on scope
// exit, unlike a permanent transform.
func TestInvalidateForScopeIsRestoredOnScopeExit(t *testing.T) {
	a := NewAnalyzer()
	a.Declare("a", owned("a", "T"))

	a.EnterScope()
	a.InvalidateForScope("a", "view", source.Position{})
	src, _ := a.Lookup("a")
	if src.State != StateInvalidated {
		t.Fatal("expected a to be invalidated for the duration of the scope")
	}
	restored := a.ExitScope()
	if len(restored) != 1 {
		t.Fatalf("expected exactly 1 entry registered for scope-exit restoration, got %d", len(restored))
	}
	restored[0].Object.State = StateValid
	restored[0].Object.InvalidatedBy = ""

	if src.State != StateValid {
		t.Error("expected the scoped-access suspension to be restored after the scope exits")
	}
}
