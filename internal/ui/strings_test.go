package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  bulbasaur ", 20, "bulbasaur"},
		{"charmander", 7, "char..."},
		{"squirtle", 3, "squ"},
		{"mew", 0, "mew"},
		{"Flabébé", 6, "Fla..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestFitAndPad(t *testing.T) {
	if got := fit("pikachu", 10); got != "pikachu   " {
		t.Fatalf("fit short = %q", got)
	}
	if got := fit("charizard-mega-x", 10); got != "chariza..." {
		t.Fatalf("fit long = %q", got)
	}
	if got := padLeft("25", 5); got != "   25" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padLeft("123456", 5); got != "123456" {
		t.Fatalf("padLeft overflow = %q", got)
	}
}
