package assembly

import (
	"context"
	"fmt"
	"io"
)

// Scanner pulls contig records out of one assembly file. It is the single
// parsing entry point for every dialect; Next dispatches on the format.
//
// Next and NextHeader return io.EOF at end of input, a *SyntaxError when the
// file cannot be parsed any further, and a *RecordError when one contig was
// malformed but scanning can continue.
type Scanner struct {
	format Format
	lr     *lineReader
	keep   func(Header) bool

	ordinal int
	caf     *cafState
}

// NewScanner returns a Scanner reading r as format f.
func NewScanner(r io.Reader, f Format) *Scanner {
	s := &Scanner{format: f, lr: newLineReader(r)}
	if f == FormatCAF {
		s.caf = newCAFState()
	}
	return s
}

// Format reports the dialect being scanned.
func (s *Scanner) Format() Format { return s.format }

// Offset is the number of input bytes consumed so far.
func (s *Scanner) Offset() int64 { return s.lr.consumed() }

// Filter limits Next to contigs for which keep returns true. Rejected
// contigs are skipped without parsing their reads.
func (s *Scanner) Filter(keep func(Header) bool) { s.keep = keep }

func (s *Scanner) wanted(h Header) bool { return s.keep == nil || s.keep(h) }

// Next returns the next contig record.
func (s *Scanner) Next(ctx context.Context) (*ContigRecord, error) {
	switch s.format {
	case FormatACE:
		return s.aceNext(ctx)
	case FormatCAF:
		return s.cafNext(ctx)
	}
	return nil, fmt.Errorf("scanner: unsupported format %v", s.format)
}

// NextHeader returns the next contig header without assembling the contig.
// Do not mix NextHeader and Next on one Scanner.
func (s *Scanner) NextHeader(ctx context.Context) (Header, error) {
	switch s.format {
	case FormatACE:
		return s.aceNextHeader(ctx)
	case FormatCAF:
		return s.cafNextHeader(ctx)
	}
	return Header{}, fmt.Errorf("scanner: unsupported format %v", s.format)
}

// assignNumber fills h.Number from the name or the running ordinal.
func (s *Scanner) assignNumber(h *Header) {
	s.ordinal++
	if n, ok := numberFromName(h.Name); ok {
		h.Number = n
		return
	}
	h.Number = s.ordinal
}
