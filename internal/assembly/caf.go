package assembly

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/golang/snappy"
)

// CAF is a sequence of blank-line separated entries:
//
//	Sequence : <name>
//	Is_read | Is_contig
//	Template "<id>"
//	Strand Forward|Reverse
//	Clipping QUAL <start> <end>
//	Assembled_from <read> <refStart> <refEnd> <clipStart> <clipEnd>
//
//	DNA : <name>
//	<sequence lines>
//
//	BaseQuality : <name>
//	<integers>
//
// Entries may arrive in any order, so reads, DNA and qualities are cached
// by name until the contig that claims them can be emitted.

const (
	cafSequence = "Sequence"
	cafDNA      = "DNA"
	cafQuality  = "BaseQuality"
)

type cafRead struct {
	name         string
	template     string
	complemented bool
	clipStart    int
	clipEnd      int
	hasClip      bool
	line         int
	problem      error
}

type cafPlacement struct {
	read               string
	refStart, refEnd   int
	clipStart, clipEnd int
	reversed           bool // refStart > refEnd in the file
	line               int
}

type cafContig struct {
	header     Header
	placements []cafPlacement
}

type cafState struct {
	reads   map[string]*cafRead
	dna     map[string][]byte // snappy blocks
	qual    map[string][]int
	qualErr map[string]error
	pending []*cafContig
	discard map[string]bool // names claimed by filtered-out contigs
	eof     bool
}

func newCAFState() *cafState {
	return &cafState{
		reads:   make(map[string]*cafRead),
		dna:     make(map[string][]byte),
		qual:    make(map[string][]int),
		qualErr: make(map[string]error),
		discard: make(map[string]bool),
	}
}

// cafEntryHeader splits "<Kind> : <name>". ok is false for lines that are
// not entry headers at all; err is set for entry headers that do not tokenize.
func cafEntryHeader(l rawLine) (kind, name string, ok bool, err error) {
	f := strings.Fields(l.text)
	if len(f) == 0 {
		return "", "", false, nil
	}
	switch f[0] {
	case cafSequence, cafDNA, cafQuality:
	default:
		return "", "", false, nil
	}
	if len(f) != 3 || f[1] != ":" {
		return "", "", true, syntaxErr(l, f[0]+" header wants '<kind> : <name>'")
	}
	return f[0], f[2], true, nil
}

func isCAFEntryHeader(l rawLine) bool {
	_, _, ok, _ := cafEntryHeader(l)
	return ok
}

// cafBody returns the lines of the current entry, stopping at a blank line,
// end of input, or the next entry header (which is pushed back).
func (s *Scanner) cafBody(ctx context.Context) ([]rawLine, error) {
	var body []rawLine
	for {
		l, err := s.lr.next(ctx)
		if err == io.EOF {
			return body, nil
		}
		if err != nil {
			return nil, err
		}
		if l.blank() {
			if len(body) == 0 {
				continue
			}
			return body, nil
		}
		if isCAFEntryHeader(l) {
			s.lr.unread(l)
			return body, nil
		}
		body = append(body, l)
	}
}

// cafEntry reads the next entry header. It returns io.EOF at end of input.
func (s *Scanner) cafEntry(ctx context.Context) (kind, name string, hdr rawLine, err error) {
	for {
		l, err := s.lr.next(ctx)
		if err != nil {
			return "", "", rawLine{}, err
		}
		if l.blank() {
			continue
		}
		kind, name, ok, err := cafEntryHeader(l)
		if err != nil {
			return "", "", rawLine{}, err
		}
		if ok {
			return kind, name, l, nil
		}
	}
}

func (s *Scanner) cafNextHeader(ctx context.Context) (Header, error) {
	for {
		kind, name, hdr, err := s.cafEntry(ctx)
		if err != nil {
			return Header{}, err
		}
		body, err := s.cafBody(ctx)
		if err != nil {
			return Header{}, err
		}
		if kind != cafSequence || !cafIsContig(body) {
			continue
		}
		c, err := s.cafContigEntry(name, hdr, body)
		if err != nil {
			return Header{}, err
		}
		return c.header, nil
	}
}

func cafIsContig(body []rawLine) bool {
	for _, l := range body {
		if strings.TrimSpace(l.text) == "Is_contig" {
			return true
		}
	}
	return false
}

func (s *Scanner) cafContigEntry(name string, hdr rawLine, body []rawLine) (*cafContig, error) {
	c := &cafContig{header: Header{Name: name, Offset: hdr.offset, Line: hdr.line}}
	seen := make(map[string]int)
	for _, l := range body {
		f := strings.Fields(l.text)
		if len(f) == 0 || f[0] != "Assembled_from" {
			continue
		}
		if len(f) != 6 {
			return nil, syntaxErr(l, "Assembled_from wants read name and four integers")
		}
		n, err := atoiFields(f[2:6])
		if err != nil {
			return nil, syntaxErr(l, "Assembled_from positions must be integers")
		}
		p := cafPlacement{read: f[1], refStart: n[0], refEnd: n[1], clipStart: n[2], clipEnd: n[3], line: l.line}
		if p.refStart > p.refEnd {
			p.refStart, p.refEnd, p.reversed = p.refEnd, p.refStart, true
		}
		if i, dup := seen[p.read]; dup {
			// several segments of one padded read collapse into their hull
			q := &c.placements[i]
			q.refStart, q.refEnd = min(q.refStart, p.refStart), max(q.refEnd, p.refEnd)
			q.clipStart, q.clipEnd = min(q.clipStart, p.clipStart), max(q.clipEnd, p.clipEnd)
			q.reversed = q.reversed || p.reversed
			continue
		}
		seen[p.read] = len(c.placements)
		c.placements = append(c.placements, p)
	}
	c.header.ReadCount = len(c.placements)
	s.assignNumber(&c.header)
	return c, nil
}

func cafReadEntry(name string, hdr rawLine, body []rawLine) *cafRead {
	r := &cafRead{name: name, line: hdr.line}
	for _, l := range body {
		f := strings.Fields(l.text)
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "Template":
			if len(f) >= 2 {
				r.template = strings.Trim(strings.Join(f[1:], " "), `"`)
			}
		case "Strand":
			r.complemented = len(f) >= 2 && f[1] == "Reverse"
		case "Clipping":
			if len(f) != 4 || f[1] != "QUAL" {
				continue
			}
			n, err := atoiFields(f[2:4])
			if err != nil {
				r.problem = fmt.Errorf("line %d: malformed Clipping QUAL: %w", l.line, err)
				continue
			}
			r.clipStart, r.clipEnd, r.hasClip = n[0], n[1], true
		}
	}
	return r
}

func (s *Scanner) cafNext(ctx context.Context) (*ContigRecord, error) {
	st := s.caf
	for {
		if i := st.firstComplete(); i >= 0 {
			return s.cafEmit(i)
		}
		if st.eof {
			if len(st.pending) == 0 {
				return nil, io.EOF
			}
			return s.cafEmit(0)
		}
		if err := s.cafStep(ctx); err == io.EOF {
			st.eof = true
		} else if err != nil {
			return nil, err
		}
	}
}

// cafStep consumes one entry into the caches.
func (s *Scanner) cafStep(ctx context.Context) error {
	st := s.caf
	kind, name, hdr, err := s.cafEntry(ctx)
	if err != nil {
		return err
	}
	body, err := s.cafBody(ctx)
	if err != nil {
		return err
	}
	if st.discard[name] {
		return nil
	}
	switch kind {
	case cafSequence:
		if !cafIsContig(body) {
			st.reads[name] = cafReadEntry(name, hdr, body)
			return nil
		}
		c, err := s.cafContigEntry(name, hdr, body)
		if err != nil {
			return err
		}
		if !s.wanted(c.header) {
			st.forget(name, c)
			return nil
		}
		st.pending = append(st.pending, c)
	case cafDNA:
		var buf bytes.Buffer
		for _, l := range body {
			buf.WriteString(strings.TrimSpace(l.text))
		}
		st.dna[name] = snappy.Encode(nil, buf.Bytes())
	case cafQuality:
		var q []int
		for _, l := range body {
			for _, f := range strings.Fields(l.text) {
				v, err := strconv.Atoi(f)
				if err != nil {
					st.qualErr[name] = fmt.Errorf("BaseQuality %s line %d: %w", name, l.line, ErrBadQuality)
					continue
				}
				q = append(q, v)
			}
		}
		if _, bad := st.qualErr[name]; !bad {
			st.qual[name] = q
		}
	}
	return nil
}

// forget drops everything a filtered-out contig would have claimed.
func (st *cafState) forget(name string, c *cafContig) {
	st.discard[name] = true
	st.drop(name)
	for _, p := range c.placements {
		st.discard[p.read] = true
		st.drop(p.read)
	}
}

func (st *cafState) drop(name string) {
	delete(st.reads, name)
	delete(st.dna, name)
	delete(st.qual, name)
	delete(st.qualErr, name)
}

func (st *cafState) complete(c *cafContig) bool {
	if _, ok := st.dna[c.header.Name]; !ok {
		return false
	}
	for _, p := range c.placements {
		if _, ok := st.reads[p.read]; !ok {
			return false
		}
		if _, ok := st.dna[p.read]; !ok {
			return false
		}
	}
	return true
}

func (st *cafState) firstComplete() int {
	for i, c := range st.pending {
		if st.complete(c) {
			return i
		}
	}
	return -1
}

func (st *cafState) takeDNA(name string) ([]byte, bool, error) {
	block, ok := st.dna[name]
	if !ok {
		return nil, false, nil
	}
	seq, err := snappy.Decode(nil, block)
	if err != nil {
		return nil, true, fmt.Errorf("DNA %s: %w", name, err)
	}
	return seq, true, nil
}

// cafEmit removes pending contig i and builds its record from the caches.
func (s *Scanner) cafEmit(i int) (*ContigRecord, error) {
	st := s.caf
	c := st.pending[i]
	st.pending = append(st.pending[:i], st.pending[i+1:]...)
	defer func() {
		st.drop(c.header.Name)
		for _, p := range c.placements {
			st.drop(p.read)
		}
	}()

	seq, ok, err := st.takeDNA(c.header.Name)
	if err != nil {
		return nil, &RecordError{Header: c.header, Err: err}
	}
	if !ok {
		return nil, &RecordError{Header: c.header, Err: errors.New("no DNA block for contig")}
	}
	if qe := st.qualErr[c.header.Name]; qe != nil {
		return nil, &RecordError{Header: c.header, Err: qe}
	}
	c.header.Length = len(seq)
	rec := &ContigRecord{Header: c.header, Format: FormatCAF, Seq: seq, Quality: st.qual[c.header.Name]}

	for _, p := range c.placements {
		drop := func(e error) {
			rec.Dropped = append(rec.Dropped, &ReadError{Read: p.read, Line: p.line, Err: e})
		}
		r, ok := st.reads[p.read]
		if !ok {
			drop(fmt.Errorf("%w: no Sequence entry", ErrMissingRead))
			continue
		}
		if r.problem != nil {
			drop(r.problem)
			continue
		}
		rseq, ok, err := st.takeDNA(p.read)
		if err != nil {
			drop(err)
			continue
		}
		if !ok {
			drop(fmt.Errorf("%w: no DNA block", ErrMissingRead))
			continue
		}
		if p.refEnd-p.refStart != p.clipEnd-p.clipStart {
			drop(fmt.Errorf("%w: ref %d-%d, clip %d-%d", ErrPlacementShape, p.refStart, p.refEnd, p.clipStart, p.clipEnd))
			continue
		}
		var qual []int
		if st.qualErr[p.read] == nil {
			qual = st.qual[p.read]
		}
		clipStart, clipEnd := p.clipStart, p.clipEnd
		qclipStart, qclipEnd := r.clipStart, r.clipEnd
		if p.reversed {
			// DNA is stored in read orientation; turn it onto the contig strand
			n := len(rseq)
			rseq = reverseComplement(rseq)
			qual = reverseInts(qual)
			clipStart, clipEnd = n-p.clipEnd+1, n-p.clipStart+1
			qclipStart, qclipEnd = n-r.clipEnd+1, n-r.clipStart+1
		}
		rr := ReadRecord{
			Name:         r.name,
			Template:     r.template,
			Seq:          rseq,
			Complemented: r.complemented || p.reversed,
			Start:        p.refStart - clipStart + 1,
			ClipStart:    clipStart,
			ClipEnd:      clipEnd,
			Quality:      qual,
			Line:         r.line,
		}
		if r.hasClip {
			rr.ClipStart = max(rr.ClipStart, qclipStart)
			rr.ClipEnd = min(rr.ClipEnd, qclipEnd)
		}
		rec.Reads = append(rec.Reads, rr)
	}
	return rec, nil
}

// reverseComplement returns the reverse complement of s in a new slice.
// Gap markers and unknown letters are kept as they are.
func reverseComplement(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		c, _ := alphabet.DNAredundant.Complement(alphabet.Letter(b))
		out[len(s)-1-i] = byte(c)
	}
	return out
}

func reverseInts(q []int) []int {
	if q == nil {
		return nil
	}
	out := make([]int, len(q))
	for i, v := range q {
		out[len(q)-1-i] = v
	}
	return out
}
