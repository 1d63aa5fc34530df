package typesys

import "testing"

func TestEncodeDecodeWrapperRoundTrip(t *testing.T) {
	kinds := []WrapperKind{
		WrapperOwned, WrapperHijacked, WrapperRetained, WrapperTracked,
		WrapperShared, WrapperSnatched, WrapperViewed, WrapperInspected, WrapperSeized,
	}
	bases := []string{"T", "Widget", "s32"}

	for _, k := range kinds {
		for _, base := range bases {
			encoded := EncodeWrapper(k, base)
			gotKind, gotBase, extra, ok := DecodeWrapper(encoded)
			if !ok {
				t.Fatalf("DecodeWrapper(%q) failed to decode", encoded)
			}
			if gotKind != k || gotBase != base || len(extra) != 0 {
				t.Errorf("round trip mismatch for %s<%s>: got (%s, %s, %v)", k, base, gotKind, gotBase, extra)
			}
		}
	}
}

func TestEncodeDecodeWrapperWithPolicy(t *testing.T) {
	encoded := EncodeWrapper(WrapperShared, "Widget", "Mutex")
	kind, base, extra, ok := DecodeWrapper(encoded)
	if !ok || kind != WrapperShared || base != "Widget" || len(extra) != 1 || extra[0] != "Mutex" {
		t.Fatalf("got (%v, %q, %v, %v)", kind, base, extra, ok)
	}
}

func TestDecodeWrapperRejectsUnknownNames(t *testing.T) {
	cases := []string{"Widget", "Frobnicated<T>", "Owned", "Owned<"}
	for _, c := range cases {
		if _, _, _, ok := DecodeWrapper(c); ok {
			t.Errorf("DecodeWrapper(%q) unexpectedly succeeded", c)
		}
	}
}

func TestIsReadOnlyWrapper(t *testing.T) {
	if !IsReadOnlyWrapper(EncodeWrapper(WrapperViewed, "T")) {
		t.Error("Viewed<T> should be read-only")
	}
	if !IsReadOnlyWrapper(EncodeWrapper(WrapperInspected, "T")) {
		t.Error("Inspected<T> should be read-only")
	}
	if IsReadOnlyWrapper(EncodeWrapper(WrapperHijacked, "T")) {
		t.Error("Hijacked<T> should not be read-only")
	}
}
