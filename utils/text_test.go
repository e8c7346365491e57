package utils

import "testing"

func TestUnitKey(t *testing.T) {
	a := UnitKey("Maple  Residency", " A-101 ")
	b := UnitKey("maple residency", "a-101")
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if a != "maple residency::a-101" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestEqualFoldNormalized(t *testing.T) {
	if !EqualFoldNormalized("  Maple   Residency ", "maple residency") {
		t.Error("expected normalized match")
	}
	if EqualFoldNormalized("Maple", "Oak") {
		t.Error("expected mismatch")
	}
}

func TestParseEmailList(t *testing.T) {
	got := ParseEmailList("a@x.com, b@x.com\n a@x.com; c@x.com")
	want := []string{"a@x.com", "b@x.com", "c@x.com"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if list := ParseEmailList("   "); len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}
}
