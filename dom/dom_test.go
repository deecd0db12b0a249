package dom

import "testing"

func TestIsMediaTag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tag  string
		want bool
	}{
		{"AUDIO", true},
		{"VIDEO", true},
		{"audio", true},
		{"Video", true},
		{"DIV", false},
		{"AUDIOX", false},
		{"", false},
		{"SOURCE", false},
	}
	for _, tc := range cases {
		if got := IsMediaTag(tc.tag); got != tc.want {
			t.Fatalf("IsMediaTag(%q)=%v, want %v", tc.tag, got, tc.want)
		}
	}
}
