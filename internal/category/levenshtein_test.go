package category

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"food", "food", 0},
		{"fooddd", "food", 2},
		{"helth", "health", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"café", "cafe", 1},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Fatalf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	words := []string{"", "a", "food", "fooddd", "transport", "taxi", "grab", "xyzxyz", "café", "personal care"}
	for _, a := range words {
		for _, b := range words {
			if Distance(a, b) != Distance(b, a) {
				t.Fatalf("Distance not symmetric for %q, %q", a, b)
			}
		}
	}
}
