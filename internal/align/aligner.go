package align

import (
	"bytes"
	"fmt"

	"github.com/biogo/biogo/align"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// AlignGap is the gap character in aligner output.
const AlignGap byte = '-'

// Result is one local alignment of a (reference) against b (read).
// Start1/Start2 are 0-based offsets of the first aligned column; A and B
// have equal length and use AlignGap for gaps.
type Result struct {
	Start1, Start2 int
	A, B           []byte
	Score          int
}

// Aligner computes a local pairwise alignment.
type Aligner interface {
	Align(a, b []byte) (Result, error)
}

// Scoring is an affine scoring scheme. Penalties are negative numbers.
type Scoring struct {
	Match     int
	Mismatch  int
	Ambiguous int
	GapOpen   int
	GapExtend int
}

// DefaultScoring: match +1, mismatch -2, N or IUPAC code 0, gap -3/-1.
var DefaultScoring = Scoring{Match: 1, Mismatch: -2, Ambiguous: 0, GapOpen: -3, GapExtend: -1}

func upper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func isBase(b byte) bool {
	switch upper(b) {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

// Pair scores one aligned column of two residues.
func (s Scoring) Pair(a, b byte) int {
	if !isBase(a) || !isBase(b) {
		return s.Ambiguous
	}
	if upper(a) == upper(b) {
		return s.Match
	}
	return s.Mismatch
}

// Score rescores an alignment column by column. A column gapped on both
// sides scores zero.
func (s Scoring) Score(a, b []byte, isGap func(byte) bool) int {
	total := 0
	var inA, inB bool
	for i := range a {
		ga, gb := isGap(a[i]), isGap(b[i])
		switch {
		case ga && gb:
		case ga:
			if !inA {
				total += s.GapOpen
			}
			total += s.GapExtend
		case gb:
			if !inB {
				total += s.GapOpen
			}
			total += s.GapExtend
		default:
			total += s.Pair(a[i], b[i])
		}
		inA, inB = ga && !gb, gb && !ga
	}
	return total
}

// matrix builds a biogo substitution matrix over alpha, whose gap letter
// sits at index 0.
func (s Scoring) matrix(alpha alphabet.Alphabet) align.Linear {
	n := alpha.Len()
	m := make(align.Linear, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			switch {
			case i == 0 && j == 0:
			case i == 0 || j == 0:
				m[i][j] = s.GapExtend
			default:
				m[i][j] = s.Pair(byte(alpha.Letter(i)), byte(alpha.Letter(j)))
			}
		}
	}
	return m
}

// SmithWaterman is the default Aligner, backed by biogo's affine
// Smith-Waterman over the redundant DNA alphabet.
type SmithWaterman struct {
	Scoring Scoring
}

func sanitize(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		b = upper(b)
		if alphabet.DNAredundant.IndexOf(alphabet.Letter(b)) <= 0 {
			b = 'N'
		}
		out[i] = b
	}
	return out
}

func letters(s alphabet.Slice) ([]byte, error) {
	l, ok := s.(alphabet.Letters)
	if !ok {
		return nil, fmt.Errorf("smith-waterman: unexpected slice type %T", s)
	}
	out := make([]byte, len(l))
	for i, c := range l {
		out[i] = byte(c)
	}
	return out, nil
}

// Align aligns read b locally against reference a.
func (sw SmithWaterman) Align(a, b []byte) (Result, error) {
	if len(a) == 0 || len(b) == 0 {
		return Result{}, ErrNoAlignment
	}
	alpha := alphabet.DNAredundant
	aligner := align.SWAffine{Matrix: sw.Scoring.matrix(alpha), GapOpen: sw.Scoring.GapOpen}
	ref := linear.NewSeq("reference", alphabet.BytesToLetters(sanitize(a)), alpha)
	query := linear.NewSeq("read", alphabet.BytesToLetters(sanitize(b)), alpha)

	pairs, err := aligner.Align(ref, query)
	if err != nil {
		return Result{}, fmt.Errorf("smith-waterman: %w", err)
	}
	if len(pairs) == 0 {
		return Result{}, ErrNoAlignment
	}
	fa := align.Format(ref, query, pairs, alphabet.Letter(AlignGap))
	ra, err := letters(fa[0])
	if err != nil {
		return Result{}, err
	}
	rb, err := letters(fa[1])
	if err != nil {
		return Result{}, err
	}
	f := pairs[0].Features()
	res := Result{
		Start1: f[0].Start(),
		Start2: f[1].Start(),
		A:      bytes.ToUpper(ra),
		B:      bytes.ToUpper(rb),
	}
	res.Score = sw.Scoring.Score(res.A, res.B, func(c byte) bool { return c == AlignGap })
	return res, nil
}
