package keys

import "testing"

func TestMatchupKeyIsOrderIndependent(t *testing.T) {
	a := MatchupKey([]string{"0xBEEF", "0xabc"})
	b := MatchupKey([]string{" abc ", "0xbeef"})
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if a != "0xabc_0xbeef" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestNormalizeAddress(t *testing.T) {
	if got := NormalizeAddress("  "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := NormalizeAddress("0xAbC"); got != "0xabc" {
		t.Fatalf("unexpected %q", got)
	}
}
