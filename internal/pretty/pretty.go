// Package pretty renders a read's alignment against its contig consensus
// as wrapped ASCII blocks, built from the consensus and the read's
// differences alone.
package pretty

import (
	"fmt"
	"strings"

	"contigkit/internal/model"
)

// Options control the ASCII rendering.
type Options struct {
	// Columns per block. If <=0, use default (60).
	Width int

	// Glyphs
	ExactGlyph   string // default "|"
	PartialGlyph string // default "¦", a match on an ambiguity code
	GapGlyph     byte   // default '-'
}

// DefaultOptions keeps the standard look.
var DefaultOptions = Options{
	Width:        60,
	ExactGlyph:   "|",
	PartialGlyph: "¦",
	GapGlyph:     '-',
}

const linePrefix = "# "

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.ExactGlyph == "" {
		o.ExactGlyph = DefaultOptions.ExactGlyph
	}
	if o.PartialGlyph == "" {
		o.PartialGlyph = DefaultOptions.PartialGlyph
	}
	if o.GapGlyph == 0 {
		o.GapGlyph = DefaultOptions.GapGlyph
	}
	return o
}

// column is one aligned position; a zero position marks a gap.
type column struct {
	ref, read       byte
	refPos, readPos int
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func isACGT(b byte) bool { return b == 'A' || b == 'C' || b == 'G' || b == 'T' }

// columns rebuilds the aligned pair. An insertion is listed at the
// reference base it follows.
func columns(c *model.ReferenceSequence, r *model.Read) []column {
	subs := make(map[int]model.Difference, len(r.Diffs))
	ins := make(map[int][]model.Difference)
	for d := range r.All() {
		if d.IsInsertion() {
			ins[d.Position1] = append(ins[d.Position1], d)
		} else {
			subs[d.Position1] = d
		}
	}

	out := make([]column, 0, r.RefLen()+len(ins))
	q := r.ReadStart
	insert := func(p int) {
		for _, d := range ins[p] {
			out = append(out, column{ref: model.Gap, read: upper(d.Base2), readPos: q})
			q++
		}
	}
	insert(r.RefStart - 1)
	for p := r.RefStart; p <= r.RefEnd && p <= len(c.Seq); p++ {
		ref := upper(c.Seq[p-1])
		d, diff := subs[p]
		switch {
		case diff && d.IsDeletion():
			out = append(out, column{ref: ref, read: model.Gap, refPos: p})
		case diff:
			out = append(out, column{ref: ref, read: upper(d.Base2), refPos: p, readPos: q})
			q++
		default:
			out = append(out, column{ref: ref, read: ref, refPos: p, readPos: q})
			q++
		}
		insert(p)
	}
	return out
}

// span returns the first and last non-gap position of a block.
func span(cols []column, pos func(column) int) (int, int) {
	first, last := 0, 0
	for _, c := range cols {
		if p := pos(c); p > 0 {
			if first == 0 {
				first = p
			}
			last = p
		}
	}
	return first, last
}

// RenderRead prints one read as a title line and wrapped ref / bars /
// read blocks.
func RenderRead(c *model.ReferenceSequence, r *model.Read, opt Options) string {
	opt = opt.withDefaults()
	strand := "+"
	if !r.Forward {
		strand = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%sread %s (%s) ref %d-%d read %d-%d score %d diffs %d\n",
		linePrefix, r.Name, strand, r.RefStart, r.RefEnd, r.ReadStart, r.ReadEnd, r.Score, len(r.Diffs))

	cols := columns(c, r)
	if len(cols) == 0 {
		fmt.Fprintf(&b, "%s(no aligned bases)\n\n", linePrefix)
		return b.String()
	}
	for lo := 0; lo < len(cols); lo += opt.Width {
		blk := cols[lo:min(lo+opt.Width, len(cols))]
		var ref, bars, read strings.Builder
		for _, col := range blk {
			rb, qb := col.ref, col.read
			if rb == model.Gap {
				rb = opt.GapGlyph
			}
			if qb == model.Gap {
				qb = opt.GapGlyph
			}
			ref.WriteByte(rb)
			read.WriteByte(qb)
			switch {
			case col.refPos == 0 || col.readPos == 0 || col.ref != col.read:
				bars.WriteByte(' ')
			case isACGT(col.ref):
				bars.WriteString(opt.ExactGlyph)
			default:
				bars.WriteString(opt.PartialGlyph)
			}
		}
		rs, re := span(blk, func(c column) int { return c.refPos })
		qs, qe := span(blk, func(c column) int { return c.readPos })
		fmt.Fprintf(&b, "%sref  %7d %s %d\n", linePrefix, rs, ref.String(), re)
		fmt.Fprintf(&b, "%s     %7s %s\n", linePrefix, "", bars.String())
		fmt.Fprintf(&b, "%sread %7d %s %d\n", linePrefix, qs, read.String(), qe)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderContig prints every read of c in ID order.
func RenderContig(c *model.ReferenceSequence, reads []*model.Read, opt Options) string {
	var b strings.Builder
	for _, r := range reads {
		b.WriteString(RenderRead(c, r, opt))
	}
	return b.String()
}
