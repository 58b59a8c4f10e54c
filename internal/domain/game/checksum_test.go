package game

import (
	"strings"
	"testing"
)

func TestDigestRoundTrip(t *testing.T) {
	d := Digest(42, 987.5, 3, "tok-1")
	if d == "" {
		t.Fatal("expected non-empty digest")
	}
	if !VerifyDigest(42, 987.5, 3, "tok-1", d) {
		t.Fatalf("digest %q did not verify against its own inputs", d)
	}
}

func TestDigestDetectsAnySingleFieldMutation(t *testing.T) {
	d := Digest(42, 987.5, 3, "tok-1")

	cases := []struct {
		name   string
		verify func() bool
	}{
		{"action_count", func() bool { return VerifyDigest(43, 987.5, 3, "tok-1", d) }},
		{"resource", func() bool { return VerifyDigest(42, 987.6, 3, "tok-1", d) }},
		{"reward", func() bool { return VerifyDigest(42, 987.5, 4, "tok-1", d) }},
		{"token", func() bool { return VerifyDigest(42, 987.5, 3, "tok-2", d) }},
	}
	for _, tc := range cases {
		if tc.verify() {
			t.Fatalf("mutated %s still verified against old digest %q", tc.name, d)
		}
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	if Digest(0, 0, 0, "t") != Digest(0, 0, 0, "t") {
		t.Fatal("same inputs produced different digests")
	}
	if Digest(1, 0, 0, "t") == Digest(0, 1, 0, "t") {
		t.Fatal("digest should be order-sensitive across fields")
	}
}

func TestVerifyDigestRejectsEmpty(t *testing.T) {
	if VerifyDigest(0, ResourceCapacity, 0, "t", "") {
		t.Fatal("empty digest must never verify")
	}
}

func TestFormatHex32KeepsSign(t *testing.T) {
	if got := formatHex32(-255); got != "-ff" {
		t.Fatalf("expected -ff, got %q", got)
	}
	if got := formatHex32(255); got != "ff" {
		t.Fatalf("expected ff, got %q", got)
	}
	if strings.HasPrefix(formatHex32(0), "-") {
		t.Fatal("zero must not be negative")
	}
}
