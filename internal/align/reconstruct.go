// Package align turns a read placed on a gapped consensus into a
// model.Alignment: the covered reference and read segments plus every
// mismatching column, in gap-free coordinates of each sequence.
//
// Coordinates come from the file by default. With Realign set, the read is
// aligned from scratch against a padded reference window instead.
package align

import (
	"errors"
	"fmt"

	"contigkit/internal/gapmap"
	"contigkit/internal/model"
)

// Read-scoped reconstruction failures.
var (
	ErrSliceMismatch = errors.New("read and reference windows differ in length")
	ErrEmptyWindow   = errors.New("clip window is empty")
	ErrNoAlignment   = errors.New("no local alignment")
)

// DefaultPadFraction widens the realignment window on each side.
const DefaultPadFraction = 0.05

// Input describes one read as found in the file.
type Input struct {
	ReadSeq            []byte // gapped, whole read
	ClipStart, ClipEnd int    // 1-based inclusive, gapped read coordinates
	ContigSeq          []byte // gapped consensus
	ContigGaps         []int  // from gapmap.Ungap(ContigSeq)
	Start              int    // gapped contig position of read base 1
	Complemented       bool
	ReadQuality        []int // optional, per gapped or per gap-free base
}

// Placement is a reconstructed read.
type Placement struct {
	model.Alignment
	Seq    []byte // gap-free read
	Length int
}

// Reconstructor builds alignments for one dialect.
type Reconstructor struct {
	Gap         byte // the dialect's gap marker
	Realign     bool
	Aligner     Aligner
	PadFraction float64 // 0 selects DefaultPadFraction
	Scoring     *Scoring
}

func (r *Reconstructor) scoring() Scoring {
	if r.Scoring != nil {
		return *r.Scoring
	}
	return DefaultScoring
}

func (r *Reconstructor) aligner() Aligner {
	if r.Aligner != nil {
		return r.Aligner
	}
	return SmithWaterman{Scoring: r.scoring()}
}

func (r *Reconstructor) padFraction() float64 {
	if r.PadFraction > 0 {
		return r.PadFraction
	}
	return DefaultPadFraction
}

func (r *Reconstructor) isGap(b byte) bool { return b == r.Gap }

// window is the clamped clip window in gapped read (q) and contig (c) space.
type window struct {
	qStart, qEnd int
	cStart, cEnd int
}

func (w window) len() int { return w.qEnd - w.qStart + 1 }

// clamp maps the clip window onto the contig. Overhangs off either contig
// end are trimmed silently; a read shorter than its clip end is an error.
func clamp(in Input) (window, error) {
	w := window{qStart: max(in.ClipStart, 1), qEnd: in.ClipEnd}
	if w.qEnd < w.qStart {
		return w, fmt.Errorf("%w: clip %d-%d", ErrEmptyWindow, in.ClipStart, in.ClipEnd)
	}
	w.cStart = in.Start + w.qStart - 1
	w.cEnd = in.Start + w.qEnd - 1
	if w.cStart < 1 {
		d := 1 - w.cStart
		w.qStart += d
		w.cStart = 1
	}
	if n := len(in.ContigSeq); w.cEnd > n {
		w.qEnd -= w.cEnd - n
		w.cEnd = n
	}
	if w.qEnd < w.qStart {
		return w, fmt.Errorf("%w: read lies outside the contig", ErrEmptyWindow)
	}
	if w.qEnd > len(in.ReadSeq) {
		return w, fmt.Errorf("%w: read has %d bases, clip ends at %d", ErrSliceMismatch, len(in.ReadSeq), w.qEnd)
	}
	return w, nil
}

// Reconstruct places one read.
func (r *Reconstructor) Reconstruct(in Input) (*Placement, error) {
	clean, readGaps := gapmap.Ungap(in.ReadSeq, r.Gap)
	w, err := clamp(in)
	if err != nil {
		return nil, err
	}
	q := qualityLookup(in, r.Gap, len(clean))

	var aln model.Alignment
	if r.Realign {
		aln, err = r.realign(in, w, readGaps, q)
	} else {
		aln, err = r.direct(in, w, readGaps, q)
	}
	if err != nil {
		return nil, err
	}
	aln.Forward = !in.Complemented
	return &Placement{Alignment: aln, Seq: clean, Length: len(clean)}, nil
}

func (r *Reconstructor) direct(in Input, w window, readGaps []int, q qualityFunc) (model.Alignment, error) {
	read := in.ReadSeq[w.qStart-1 : w.qEnd]
	ref := in.ContigSeq[w.cStart-1 : w.cEnd]
	if len(read) != len(ref) {
		return model.Alignment{}, fmt.Errorf("%w: %d vs %d", ErrSliceMismatch, len(read), len(ref))
	}
	refStart := gapmap.ToUngapped(in.ContigGaps, w.cStart)
	readStart := gapmap.ToUngapped(readGaps, w.qStart)

	wk := walker{isGap: r.isGap, quality: q, gappedOffset: w.qStart - 1}
	diffs := wk.walk(ref, read, refStart, readStart)
	n := len(ref)
	return model.Alignment{
		RefStart:  refStart,
		RefEnd:    refStart + n - wk.refGaps - 1,
		ReadStart: readStart,
		ReadEnd:   readStart + n - wk.readGaps - 1,
		Diffs:     diffs,
		Score:     r.scoring().Score(ref, read, r.isGap),
	}, nil
}

// walker emits differences for two equal-length aligned slices, keeping a
// running gap count per side so positions stay in gap-free coordinates.
type walker struct {
	isGap   func(byte) bool
	quality qualityFunc
	// gappedOffset maps a column to its 0-based gapped read index; -1 when
	// columns do not correspond to the gapped read (aligner output).
	gappedOffset int

	refGaps, readGaps int
}

func (wk *walker) walk(ref, read []byte, refBase, readBase int) []model.Difference {
	var diffs []model.Difference
	for i := range ref {
		c, b := ref[i], read[i]
		cg, bg := wk.isGap(c), wk.isGap(b)
		if cg {
			wk.refGaps++
		}
		if bg {
			wk.readGaps++
		}
		if cg && bg {
			continue
		}
		if !cg && !bg && upper(c) == upper(b) {
			continue
		}
		d := model.Difference{
			Position1: refBase + i - wk.refGaps,
			Base1:     upper(c),
			Position2: readBase + i - wk.readGaps,
			Base2:     upper(b),
		}
		if cg {
			d.Base1 = model.Gap
		}
		if bg {
			d.Base2 = model.Gap
		}
		if wk.quality != nil {
			gi := -1
			if wk.gappedOffset >= 0 {
				gi = wk.gappedOffset + i
			}
			if v, ok := wk.quality(d.Position2, gi); ok {
				d.Qualified, d.Quality = true, v
			}
		}
		diffs = append(diffs, d)
	}
	return diffs
}

// qualityFunc returns the read quality at gap-free position pos or at the
// 0-based gapped index gi (when gi >= 0).
type qualityFunc func(pos, gi int) (int, bool)

func qualityLookup(in Input, gap byte, cleanLen int) qualityFunc {
	q := in.ReadQuality
	switch {
	case len(q) == 0:
		return nil
	case len(q) == len(in.ReadSeq):
		cleanToGapped := make([]int, 0, cleanLen)
		for i, b := range in.ReadSeq {
			if b != gap {
				cleanToGapped = append(cleanToGapped, i)
			}
		}
		return func(pos, gi int) (int, bool) {
			if gi >= 0 && gi < len(q) {
				return q[gi], true
			}
			if pos >= 1 && pos <= len(cleanToGapped) {
				return q[cleanToGapped[pos-1]], true
			}
			return 0, false
		}
	case len(q) == cleanLen:
		return func(pos, _ int) (int, bool) {
			if pos >= 1 && pos <= len(q) {
				return q[pos-1], true
			}
			return 0, false
		}
	}
	return nil
}
