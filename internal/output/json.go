// internal/output/json.go
package output

import (
	"encoding/hex"
	"io"
	"sort"

	"golang.org/x/crypto/blake2b"

	"contigkit/internal/assembly"
	"contigkit/internal/jsonutil"
	"contigkit/internal/model"
	"contigkit/pkg/api"
)

// Contig is a finished contig plus the reads the assembler dropped.
type Contig struct {
	*model.ReferenceSequence
	Dropped []*assembly.ReadError
}

// Digest is the hex BLAKE2b-256 of the gap-free consensus.
func Digest(seq []byte) string {
	sum := blake2b.Sum256(seq)
	return hex.EncodeToString(sum[:])
}

// SortedReads returns the reads of c in ID order.
func SortedReads(c *model.ReferenceSequence) []*model.Read {
	out := make([]*model.Read, 0, len(c.Reads))
	for _, r := range c.Reads {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func strand(forward bool) string {
	if forward {
		return "+"
	}
	return "-"
}

// ToAPIContig converts a domain contig to the stable wire schema (v1).
func ToAPIContig(c Contig, withSeq bool) api.ContigV1 {
	v := api.ContigV1{
		Number:     c.ID,
		Name:       c.Name,
		SourceFile: c.Source,
		Length:     c.Length,
		Digest:     Digest(c.Seq),
		Reads:      []api.ReadV1{},
		Strains:    []api.StrainV1{},
	}
	if withSeq {
		v.Consensus = string(c.Seq)
		if c.HasQuality {
			v.Quality = append([]int(nil), c.Quality...)
		}
	}
	for _, r := range SortedReads(c.ReferenceSequence) {
		v.Reads = append(v.Reads, toAPIRead(c.ReferenceSequence, r))
	}
	ids := make([]int, 0, len(c.Strains))
	for id := range c.Strains {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s := c.Strains[id]
		v.Strains = append(v.Strains, api.StrainV1{
			ID: s.ID, Name: s.Name, Start: s.Start, End: s.End,
			Reads: append([]int{}, s.Reads...),
		})
	}
	for _, d := range c.Dropped {
		v.Dropped = append(v.Dropped, api.DropV1{Read: d.Read, Line: d.Line, Reason: d.Err.Error()})
	}
	return v
}

func toAPIRead(c *model.ReferenceSequence, r *model.Read) api.ReadV1 {
	v := api.ReadV1{
		ID:        r.ID,
		Name:      r.Name,
		Template:  r.Template,
		Length:    r.Length,
		Strand:    strand(r.Forward),
		RefStart:  r.RefStart,
		RefEnd:    r.RefEnd,
		ReadStart: r.ReadStart,
		ReadEnd:   r.ReadEnd,
		Score:     r.Score,
		Realigned: r.Realigned,
	}
	if m, ok := c.Mate(r); ok {
		v.Mate = m.Name
	}
	for d := range r.All() {
		dv := api.DifferenceV1{
			RefPos:   d.Position1,
			RefBase:  string(d.Base1),
			ReadPos:  d.Position2,
			ReadBase: string(d.Base2),
		}
		if d.Qualified {
			q := d.Quality
			dv.Quality = &q
		}
		v.Diffs = append(v.Diffs, dv)
	}
	return v
}

// ToAPIHeader converts a scanned header.
func ToAPIHeader(h assembly.Header, source string) api.HeaderV1 {
	return api.HeaderV1{
		Number:     h.Number,
		Name:       h.Name,
		SourceFile: source,
		Length:     h.Length,
		Reads:      h.ReadCount,
		Offset:     h.Offset,
		Line:       h.Line,
	}
}

// WriteJSON writes one contig as indented JSON, consensus included.
func WriteJSON(w io.Writer, c Contig) error {
	return jsonutil.EncodePretty(w, ToAPIContig(c, true))
}
