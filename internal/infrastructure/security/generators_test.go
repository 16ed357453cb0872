package security

import "testing"

func TestGenerateULID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateULID()
		if len(id) != 26 {
			t.Fatalf("GenerateULID() = %q, want 26 characters", id)
		}
		if !IsValidULID(id) {
			t.Fatalf("IsValidULID(%q) = false", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIsValidULID(t *testing.T) {
	for _, s := range []string{"", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA", "01ARZ3NDEKTSV4RRFFQ69G5FAVX"} {
		if IsValidULID(s) {
			t.Errorf("IsValidULID(%q) = true", s)
		}
	}
	if !IsValidULID("01ARZ3NDEKTSV4RRFFQ69G5FAV") {
		t.Errorf("canonical ULID rejected")
	}
}
