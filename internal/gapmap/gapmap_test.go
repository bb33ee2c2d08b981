package gapmap

import (
	"bytes"
	"reflect"
	"testing"
)

func TestUngap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		clean string
		gaps  []int
	}{
		{"empty", "", "", nil},
		{"no gaps", "ACGT", "ACGT", nil},
		{"leading", "*ACGT", "ACGT", []int{1}},
		{"trailing", "ACGT**", "ACGT", []int{5, 6}},
		{"adjacent", "AC**GT", "ACGT", []int{3, 4}},
		{"all gaps", "***", "", []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, gaps := Ungap([]byte(tt.in), Star)
			if string(clean) != tt.clean {
				t.Errorf("clean = %q, want %q", clean, tt.clean)
			}
			if !reflect.DeepEqual(gaps, tt.gaps) {
				t.Errorf("gaps = %v, want %v", gaps, tt.gaps)
			}
		})
	}
}

func TestRegapRoundTrip(t *testing.T) {
	for _, s := range []string{"", "A", "*", "**A*", "A*C*G*T", "ACGT***", "***ACGT", "a-c--g"} {
		for _, m := range []byte{Star, Dash} {
			clean, gaps := Ungap([]byte(s), m)
			if got := Regap(clean, gaps, m); !bytes.Equal(got, []byte(s)) {
				t.Fatalf("Regap(Ungap(%q, %q)) = %q", s, m, got)
			}
		}
	}
}

func TestCountGapsBefore(t *testing.T) {
	gaps := []int{2, 3, 7}
	cases := map[int]int{0: 0, 1: 0, 2: 0, 3: 1, 4: 2, 7: 2, 8: 3, 100: 3}
	for pos, want := range cases {
		if got := CountGapsBefore(gaps, pos); got != want {
			t.Errorf("CountGapsBefore(%d) = %d, want %d", pos, got, want)
		}
	}
	if got := CountGapsBefore(nil, 5); got != 0 {
		t.Errorf("nil list: got %d", got)
	}
}

func TestToUngappedNeverNegative(t *testing.T) {
	_, gaps := Ungap([]byte("***AC*G"), Star)
	for pos := 1; pos <= 7; pos++ {
		if u := ToUngapped(gaps, pos); u < 1 {
			t.Fatalf("ToUngapped(%d) = %d (negative or zero)", pos, u)
		}
	}
}

func TestToGappedInverse(t *testing.T) {
	s := []byte("*AC**GT*A")
	clean, gaps := Ungap(s, Star)
	for p := 1; p <= len(clean); p++ {
		g := ToGapped(gaps, p)
		if s[g-1] != clean[p-1] {
			t.Fatalf("ToGapped(%d) = %d -> %q, want %q", p, g, s[g-1], clean[p-1])
		}
		if back := ToUngapped(gaps, g); back != p {
			t.Fatalf("ToUngapped(ToGapped(%d)) = %d", p, back)
		}
	}
}
