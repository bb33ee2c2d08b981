// Package gapmap strips assembler gap markers from padded sequences and
// translates positions between padded (gapped) and gap-free coordinates.
//
// All positions are 1-based. Gap lists are ascending and expressed in the
// gapped coordinate space of the original sequence.
package gapmap

import "sort"

// Common gap markers. ACE pads with '*', CAF and aligner output use '-'.
const (
	Star byte = '*'
	Dash byte = '-'
)

// IsGap reports whether b is any known gap marker.
func IsGap(b byte) bool { return b == Star || b == Dash }

// Ungap returns s without marker bytes and the 1-based gapped positions
// at which markers occurred. Empty and all-gap inputs are valid.
func Ungap(s []byte, marker byte) ([]byte, []int) {
	clean := make([]byte, 0, len(s))
	var gaps []int
	for i, b := range s {
		if b == marker {
			gaps = append(gaps, i+1)
			continue
		}
		clean = append(clean, b)
	}
	return clean, gaps
}

// Regap re-inserts marker at every recorded position. It is the inverse
// of Ungap: Regap(Ungap(s, m)) == s.
func Regap(clean []byte, gaps []int, marker byte) []byte {
	out := make([]byte, 0, len(clean)+len(gaps))
	gi, ci := 0, 0
	for pos := 1; ci < len(clean) || gi < len(gaps); pos++ {
		if gi < len(gaps) && gaps[gi] == pos {
			out = append(out, marker)
			gi++
			continue
		}
		if ci >= len(clean) {
			// trailing gap positions beyond the data; keep them contiguous
			out = append(out, marker)
			gi++
			continue
		}
		out = append(out, clean[ci])
		ci++
	}
	return out
}

// CountGapsBefore returns how many entries of gaps are strictly less than pos.
func CountGapsBefore(gaps []int, pos int) int {
	return sort.SearchInts(gaps, pos)
}

// ToUngapped converts a gapped position to gap-free coordinates. A position
// that sits on a gap maps to the next real base.
func ToUngapped(gaps []int, pos int) int {
	return pos - CountGapsBefore(gaps, pos)
}

// ToGapped converts a gap-free position back into gapped coordinates.
func ToGapped(gaps []int, pos int) int {
	g := pos
	for _, p := range gaps {
		if p > g {
			break
		}
		g++
	}
	return g
}
