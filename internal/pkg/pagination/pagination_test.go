package pagination

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"defaults when zero", 0, 0, 1, 10},
		{"negative page resets", -3, 5, 1, 5},
		{"oversized page size capped", 2, 500, 2, 50},
		{"in range untouched", 3, 25, 3, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size := Clamp(tc.page, tc.size, 10, 50)
			if page != tc.wantPage || size != tc.wantSize {
				t.Fatalf("Clamp(%d, %d) = (%d, %d), want (%d, %d)", tc.page, tc.size, page, size, tc.wantPage, tc.wantSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 10); got != 0 {
		t.Fatalf("page 1 offset = %d, want 0", got)
	}
	if got := Offset(4, 25); got != 75 {
		t.Fatalf("page 4 offset = %d, want 75", got)
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(45, 2, 10)
	if m.TotalPages != 5 {
		t.Fatalf("total pages = %d, want 5", m.TotalPages)
	}
	if !m.HasNext || !m.HasPrev {
		t.Fatalf("page 2 of 5 must have both neighbors, got next=%v prev=%v", m.HasNext, m.HasPrev)
	}

	last := NewMeta(45, 5, 10)
	if last.HasNext {
		t.Fatalf("last page must not have next")
	}

	empty := NewMeta(0, 1, 10)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrev {
		t.Fatalf("empty result meta wrong: %+v", empty)
	}
}
