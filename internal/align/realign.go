package align

import (
	"errors"
	"fmt"
	"math"

	"contigkit/internal/gapmap"
	"contigkit/internal/model"
)

// realign strips all gaps, aligns the clipped read locally against the
// clip window widened by the pad fraction, and walks the aligner output.
func (r *Reconstructor) realign(in Input, w window, readGaps []int, q qualityFunc) (model.Alignment, error) {
	read, _ := gapmap.Ungap(in.ReadSeq[w.qStart-1:w.qEnd], r.Gap)

	pad := int(math.Ceil(r.padFraction() * float64(w.len())))
	ws := max(1, w.cStart-pad)
	we := min(len(in.ContigSeq), w.cEnd+pad)
	ref, _ := gapmap.Ungap(in.ContigSeq[ws-1:we], r.Gap)
	if len(read) == 0 || len(ref) == 0 {
		return model.Alignment{}, fmt.Errorf("%w: nothing left after removing gaps", ErrEmptyWindow)
	}

	res, err := r.aligner().Align(ref, read)
	if err != nil {
		if errors.Is(err, ErrNoAlignment) {
			return model.Alignment{}, err
		}
		return model.Alignment{}, fmt.Errorf("%w: %v", ErrNoAlignment, err)
	}
	if len(res.A) != len(res.B) {
		return model.Alignment{}, fmt.Errorf("%w: aligner returned %d and %d columns", ErrSliceMismatch, len(res.A), len(res.B))
	}
	if len(res.A) == 0 {
		return model.Alignment{}, ErrNoAlignment
	}

	refBase := gapmap.ToUngapped(in.ContigGaps, ws) + res.Start1
	readBase := gapmap.ToUngapped(readGaps, w.qStart) + res.Start2

	wk := walker{isGap: func(b byte) bool { return b == AlignGap }, quality: q, gappedOffset: -1}
	diffs := wk.walk(res.A, res.B, refBase, readBase)
	n := len(res.A)
	return model.Alignment{
		RefStart:  refBase,
		RefEnd:    refBase + n - wk.refGaps - 1,
		ReadStart: readBase,
		ReadEnd:   readBase + n - wk.readGaps - 1,
		Diffs:     diffs,
		Score:     res.Score,
		Realigned: true,
	}, nil
}
