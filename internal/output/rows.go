// internal/output/rows.go
package output

import (
	"fmt"

	"contigkit/internal/assembly"
	"contigkit/internal/model"
)

func pairs(c *model.ReferenceSequence) int {
	n := 0
	for _, r := range c.Reads {
		if r.HasMate() {
			n++
		}
	}
	return n / 2
}

// FormatContigRowTSV returns the TSVHeader columns (no trailing newline).
func FormatContigRowTSV(c Contig) string {
	return fmt.Sprintf("%s\t%d\t%s\t%d\t%d\t%d\t%d\t%d\t%s",
		c.Source, c.ID, c.Name, c.Length,
		len(c.Reads), len(c.Dropped), pairs(c.ReferenceSequence), c.DiffCount(),
		Digest(c.Seq),
	)
}

// FormatReadRowTSV returns the ReadTSVHeader columns (no trailing newline).
func FormatReadRowTSV(c *model.ReferenceSequence, r *model.Read) string {
	mate := ""
	if m, ok := c.Mate(r); ok {
		mate = m.Name
	}
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s",
		c.Name, r.Name, strand(r.Forward),
		r.RefStart, r.RefEnd, r.ReadStart, r.ReadEnd, r.Length,
		r.Score, len(r.Diffs), mate,
	)
}

// FormatHeaderRowTSV returns the HeaderTSVHeader columns (no trailing newline).
func FormatHeaderRowTSV(h assembly.Header, source string) string {
	return fmt.Sprintf("%s\t%d\t%s\t%d\t%d\t%d\t%d",
		source, h.Number, h.Name, h.Length, h.ReadCount, h.Offset, h.Line)
}

// FormatDiff renders one difference as ref_pos:ref_base>read_base:read_pos.
func FormatDiff(d model.Difference) string {
	s := fmt.Sprintf("%d:%c>%c:%d", d.Position1, d.Base1, d.Base2, d.Position2)
	if d.Qualified {
		s += fmt.Sprintf("(q%d)", d.Quality)
	}
	return s
}
