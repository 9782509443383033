package generator

import "testing"

func TestGenerateIDLength(t *testing.T) {
	for _, length := range []int{4, 8, 16, 32} {
		id, err := GenerateID(length)
		if err != nil {
			t.Fatalf("GenerateID(%d) error = %v", length, err)
		}
		if len(id) != length {
			t.Errorf("GenerateID(%d) length = %d, want %d", length, len(id), length)
		}
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := GenerateID(16)
		if err != nil {
			t.Fatalf("GenerateID(16) error = %v", err)
		}
		if seen[id] {
			t.Fatalf("GenerateID(16) produced duplicate %q", id)
		}
		seen[id] = true
	}
}
