package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 50, 50},
		{"   ", 50, 50},
		{"20", 50, 20},
		{" 20 ", 50, 20},
		{"-3", 50, -3},
		{"ten", 50, 50},
		{"999999999999999999999999", 50, 50},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	for _, tc := range [][4]int{{0, 1, 500, 1}, {50, 1, 500, 50}, {9000, 1, 500, 500}} {
		if got := Clamp(tc[0], tc[1], tc[2]); got != tc[3] {
			t.Fatalf("Clamp(%d, %d, %d) = %d", tc[0], tc[1], tc[2], got)
		}
	}
}
