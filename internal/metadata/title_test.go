package metadata

import "testing"

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Some Movie (2023)", "Some Movie"},
		{"Some Movie 2023", "Some Movie"},
		{"Some Movie", "Some Movie"},
		{"  Some Movie (2023)  ", "Some Movie"},
		{"2001: A Space Odyssey", "2001: A Space Odyssey"},
		{"Movie (2023) Extended", "Movie (2023) Extended"},
		{"Movie2023", "Movie2023"},
		{"1917", "1917"},
		{"(2020)", "(2020)"},
	}
	for _, tc := range cases {
		if got := CleanTitle(tc.in); got != tc.want {
			t.Errorf("CleanTitle(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
