package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`language: forge`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeNormal {
		t.Fatalf("expected default mode %q, got %q", ModeNormal, cfg.Mode)
	}
}

func TestParseRejectsUnknownLanguage(t *testing.T) {
	if _, err := Parse([]byte(`language: cobol`)); err == nil {
		t.Fatal("expected an error for an unknown language")
	}
}

func TestParseRejectsUnknownMode(t *testing.T) {
	if _, err := Parse([]byte("language: forge\nmode: turbo")); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestParseRejectsInvalidMinVersion(t *testing.T) {
	if _, err := Parse([]byte("language: forge\nminVersion: not-a-version")); err == nil {
		t.Fatal("expected an error for an invalid minVersion")
	}
}

func TestSatisfiesMinVersion(t *testing.T) {
	cfg, err := Parse([]byte("language: forge\nminVersion: 0.3.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := cfg.SatisfiesMinVersion("0.4.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected 0.4.0 to satisfy >=0.3.0")
	}

	ok, err = cfg.SatisfiesMinVersion("0.2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected 0.2.0 not to satisfy >=0.3.0")
	}
}

func TestSatisfiesMinVersionWithoutGateAlwaysSatisfies(t *testing.T) {
	cfg, err := Parse([]byte("language: forge"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := cfg.SatisfiesMinVersion("0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected no minVersion to always satisfy")
	}
}
