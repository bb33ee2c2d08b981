// Package model holds the reconstructed assembly: contigs, their reads and
// the per-read alignment against the gap-free consensus.
//
// Values are built by the contig assembler and are not modified after the
// owning ReferenceSequence has been handed out.
package model

import "iter"

// Gap is the base recorded on the gapped side of an indel Difference.
const Gap byte = '-'

// Difference is one mismatching column between reference (1) and read (2).
// Positions are 1-based in gap-free coordinates of their own sequence.
type Difference struct {
	Position1 int
	Base1     byte
	Position2 int
	Base2     byte

	// Qualified differences carry the read base quality at Position2.
	Qualified bool
	Quality   int
}

// IsInsertion reports a read base over a reference gap.
func (d Difference) IsInsertion() bool { return d.Base1 == Gap }

// IsDeletion reports a reference base over a read gap.
func (d Difference) IsDeletion() bool { return d.Base2 == Gap }

// Alignment places a read on its contig.
type Alignment struct {
	RefStart, RefEnd   int // contig-relative, inclusive
	ReadStart, ReadEnd int // read-relative, inclusive
	Forward            bool
	Diffs              []Difference // ascending Position1
	Score              int
	Realigned          bool
}

// All iterates the differences in reference order. Each call starts over.
func (a *Alignment) All() iter.Seq[Difference] {
	return func(yield func(Difference) bool) {
		for _, d := range a.Diffs {
			if !yield(d) {
				return
			}
		}
	}
}

// RefLen is the number of reference bases covered.
func (a *Alignment) RefLen() int { return a.RefEnd - a.RefStart + 1 }

// ReadLen is the number of read bases covered.
func (a *Alignment) ReadLen() int { return a.ReadEnd - a.ReadStart + 1 }

// Read is one sequenced fragment placed on a contig.
type Read struct {
	ID       int
	Name     string
	Template string
	Length   int
	Seq      []byte
	Alignment

	// Mate is the ID of the paired read in the same contig, 0 when unpaired.
	// It is a relation only; neither read owns the other.
	Mate int

	BadClone    bool
	Recombinant bool
}

// HasMate reports whether the read was paired.
func (r *Read) HasMate() bool { return r.Mate != 0 }

// Strain groups reads of one contig.
type Strain struct {
	ID         int
	Name       string
	Reads      []int
	Start, End int
}

// Add appends a read and widens the strain span to cover it.
func (s *Strain) Add(r *Read) {
	if len(s.Reads) == 0 || r.RefStart < s.Start {
		s.Start = r.RefStart
	}
	if len(s.Reads) == 0 || r.RefEnd > s.End {
		s.End = r.RefEnd
	}
	s.Reads = append(s.Reads, r.ID)
}

// ReferenceSequence is one contig with its gap-free consensus.
type ReferenceSequence struct {
	ID      int
	Name    string
	Source  string
	Seq     []byte
	Length  int
	Reads   map[int]*Read
	Strains map[int]*Strain

	HasQuality bool
	Quality    []int
}

// NewReferenceSequence returns an empty contig for the gap-free consensus seq.
func NewReferenceSequence(id int, name string, seq []byte) *ReferenceSequence {
	return &ReferenceSequence{
		ID:      id,
		Name:    name,
		Seq:     seq,
		Length:  len(seq),
		Reads:   make(map[int]*Read),
		Strains: make(map[int]*Strain),
	}
}

// SetQuality attaches per-base consensus qualities. A slice whose length
// does not match the consensus is ignored and reported as false.
func (c *ReferenceSequence) SetQuality(q []int) bool {
	if len(q) != c.Length {
		return false
	}
	c.Quality = q
	c.HasQuality = true
	return true
}

// AddRead stores r under its ID.
func (c *ReferenceSequence) AddRead(r *Read) { c.Reads[r.ID] = r }

// Mate returns the read paired with r, if any.
func (c *ReferenceSequence) Mate(r *Read) (*Read, bool) {
	if !r.HasMate() {
		return nil, false
	}
	m, ok := c.Reads[r.Mate]
	return m, ok
}

// DiffCount is the total number of differences over all reads.
func (c *ReferenceSequence) DiffCount() int {
	n := 0
	for _, r := range c.Reads {
		n += len(r.Diffs)
	}
	return n
}
