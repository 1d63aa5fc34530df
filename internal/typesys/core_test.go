package typesys

import "testing"

func TestIsIntegerClassification(t *testing.T) {
	cases := map[string]bool{
		"s8": true, "s128": true, "u16": true, "saddr": true, "uaddr": true,
		"f32": false, "bool": false, "text": false,
	}
	for name, want := range cases {
		if got := (TypeInfo{Name: name}).IsInteger(); got != want {
			t.Errorf("IsInteger(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestIsFloatingPointClassification(t *testing.T) {
	cases := map[string]bool{
		"f16": true, "f128": true, "d32": true, "d128": true,
		"s32": false, "fancy": false, "f": false,
	}
	for name, want := range cases {
		if got := (TypeInfo{Name: name}).IsFloatingPoint(); got != want {
			t.Errorf("IsFloatingPoint(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	if !(TypeInfo{Name: "s32"}).IsNumeric() {
		t.Error("s32 should be numeric")
	}
	if !(TypeInfo{Name: "d64"}).IsNumeric() {
		t.Error("d64 should be numeric")
	}
	if (TypeInfo{Name: "bool"}).IsNumeric() {
		t.Error("bool should not be numeric")
	}
}

func TestFullNameWithGenerics(t *testing.T) {
	t1 := TypeInfo{Name: "Map", GenericArgs: []TypeInfo{{Name: "text"}, {Name: "s32"}}}
	if got, want := t1.FullName(), "Map[text,s32]"; got != want {
		t.Errorf("FullName() = %q, want %q", got, want)
	}
}

func TestStringPrependsRef(t *testing.T) {
	t1 := TypeInfo{Name: "Widget", IsReference: true}
	if got, want := t1.String(), "ref Widget"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEqualsStructural(t *testing.T) {
	a := TypeInfo{Name: "List", GenericArgs: []TypeInfo{{Name: "s32"}}}
	b := TypeInfo{Name: "List", GenericArgs: []TypeInfo{{Name: "s32"}}}
	c := TypeInfo{Name: "List", GenericArgs: []TypeInfo{{Name: "s64"}}}
	if !a.Equals(b) {
		t.Error("expected a.Equals(b)")
	}
	if a.Equals(c) {
		t.Error("expected !a.Equals(c)")
	}
}

func TestUnknownSentinel(t *testing.T) {
	if !Unknown.IsUnknown() {
		t.Error("Unknown.IsUnknown() should be true")
	}
	if (TypeInfo{Name: "s32"}).IsUnknown() {
		t.Error("s32 should not be unknown")
	}
}
