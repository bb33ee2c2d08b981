package assembly

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ACE layout, per contig:
//
//	CO <name> <bases> <reads> <segments> <U|C>
//	<consensus lines>
//
//	BQ
//	<qualities>
//
//	AF <read> <U|C> <start>     (one per read)
//	BS <start> <end> <read>     (ignored)
//
//	RD <read> <bases> <info> <tags>
//	<read lines>
//
//	QA <clip start> <clip end> <align start> <align end>
//	DS ...
var aceTags = []string{"AS", "CO", "BQ", "AF", "BS", "RD", "QA", "DS", "RT", "CT", "WA"}

func isACETag(line string) bool {
	if line == "BQ" {
		return true
	}
	for _, t := range aceTags {
		if len(line) > len(t) && strings.HasPrefix(line, t) {
			switch line[len(t)] {
			case ' ', '\t', '{':
				return true
			}
		}
	}
	return false
}

type acePlacement struct {
	complemented bool
	start        int
	used         bool
}

func (s *Scanner) aceNextHeader(ctx context.Context) (Header, error) {
	for {
		l, err := s.lr.next(ctx)
		if err != nil {
			return Header{}, err
		}
		if hasTag(l.text, "CO") {
			return s.aceHeader(l)
		}
	}
}

func (s *Scanner) aceHeader(l rawLine) (Header, error) {
	f := strings.Fields(l.text)
	if len(f) < 4 {
		return Header{}, syntaxErr(l, "CO wants name, length and read count")
	}
	n, err := atoiFields(f[2:4])
	if err != nil {
		return Header{}, syntaxErr(l, "CO length and read count must be integers")
	}
	h := Header{Name: f[1], Length: n[0], ReadCount: n[1], Offset: l.offset, Line: l.line}
	if len(f) >= 6 {
		h.Complemented = f[5] == "C"
	}
	s.assignNumber(&h)
	return h, nil
}

func (s *Scanner) aceNext(ctx context.Context) (*ContigRecord, error) {
	for {
		h, err := s.aceNextHeader(ctx)
		if err != nil {
			return nil, err
		}
		if s.wanted(h) {
			return s.aceContig(ctx, h)
		}
	}
}

func (s *Scanner) aceContig(ctx context.Context, h Header) (*ContigRecord, error) {
	rec := &ContigRecord{Header: h, Format: FormatACE}
	seq, _, err := s.aceSeqBlock(ctx)
	if err != nil {
		return nil, err
	}
	rec.Seq = seq

	af := make(map[string]*acePlacement)
	var badQual error
scan:
	for {
		if n := len(af); n > 0 && len(rec.Reads)+len(rec.Dropped) >= n {
			break
		}
		l, err := s.lr.next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch text := l.text; {
		case l.blank():
		case hasTag(text, "CO"):
			s.lr.unread(l)
			break scan
		case hasTag(text, "BQ"):
			q, err := s.aceQualBlock(ctx)
			if errors.Is(err, ErrBadQuality) {
				badQual = fmt.Errorf("BQ at line %d: %w", l.line, err)
			} else if err != nil {
				return nil, err
			}
			rec.Quality = q
		case hasTag(text, "AF"):
			f := strings.Fields(text)
			if len(f) < 4 {
				return nil, syntaxErr(l, "AF wants read name, direction and start")
			}
			start, err := strconv.Atoi(f[3])
			if err != nil {
				return nil, syntaxErr(l, "AF start must be an integer")
			}
			af[f[1]] = &acePlacement{complemented: f[2] == "C", start: start}
		case hasTag(text, "RD"):
			if err := s.aceRead(ctx, l, af, rec); err != nil {
				return nil, err
			}
		case strings.HasSuffix(strings.TrimSpace(text), "{"):
			if err := s.skipTagBlock(ctx); err != nil {
				return nil, err
			}
		}
	}
	if badQual != nil {
		return nil, &RecordError{Header: h, Err: badQual}
	}
	return rec, nil
}

// aceRead consumes one RD record up to and including its QA line.
func (s *Scanner) aceRead(ctx context.Context, hdr rawLine, af map[string]*acePlacement, rec *ContigRecord) error {
	f := strings.Fields(hdr.text)
	if len(f) < 3 {
		return syntaxErr(hdr, "RD wants read name and length")
	}
	length, err := strconv.Atoi(f[2])
	if err != nil {
		return syntaxErr(hdr, "RD length must be an integer")
	}
	name := f[1]
	drop := func(e error) {
		rec.Dropped = append(rec.Dropped, &ReadError{Read: name, Line: hdr.line, Err: e})
	}

	seq, complete, err := s.aceSeqBlock(ctx)
	if err != nil {
		return err
	}
	if !complete {
		drop(fmt.Errorf("%w: sequence ends early", ErrTruncatedRead))
		return nil
	}
	for {
		l, err := s.lr.next(ctx)
		if err == io.EOF {
			drop(fmt.Errorf("%w: no QA line", ErrTruncatedRead))
			return nil
		}
		if err != nil {
			return err
		}
		switch text := l.text; {
		case hasTag(text, "QA"):
			q := strings.Fields(text)
			if len(q) < 3 {
				return syntaxErr(l, "QA wants clip start and end")
			}
			clip, err := atoiFields(q[1:3])
			if err != nil {
				return syntaxErr(l, "QA clip positions must be integers")
			}
			if len(seq) != length {
				drop(fmt.Errorf("%w: %d of %d bases", ErrTruncatedRead, len(seq), length))
				return nil
			}
			p, ok := af[name]
			if !ok {
				drop(ErrNoPlacement)
				return nil
			}
			if p.used {
				drop(fmt.Errorf("%w: duplicate RD record", ErrNoPlacement))
				return nil
			}
			p.used = true
			rec.Reads = append(rec.Reads, ReadRecord{
				Name:         name,
				Seq:          seq,
				Complemented: p.complemented,
				Start:        p.start,
				ClipStart:    clip[0],
				ClipEnd:      clip[1],
				Line:         hdr.line,
			})
			return nil
		case hasTag(text, "RD"), hasTag(text, "CO"):
			s.lr.unread(l)
			drop(fmt.Errorf("%w: no QA line", ErrTruncatedRead))
			return nil
		case strings.HasSuffix(strings.TrimSpace(text), "{"):
			if err := s.skipTagBlock(ctx); err != nil {
				return err
			}
		}
	}
}

// aceSeqBlock collects sequence lines up to a blank line. complete is false
// when the block was cut short by end of input or by a tag line.
func (s *Scanner) aceSeqBlock(ctx context.Context) (seq []byte, complete bool, err error) {
	var buf bytes.Buffer
	for {
		l, err := s.lr.next(ctx)
		if err == io.EOF {
			return buf.Bytes(), false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if l.blank() {
			if buf.Len() == 0 {
				continue
			}
			return buf.Bytes(), true, nil
		}
		if isACETag(l.text) {
			s.lr.unread(l)
			return buf.Bytes(), false, nil
		}
		buf.WriteString(strings.TrimSpace(l.text))
	}
}

func (s *Scanner) aceQualBlock(ctx context.Context) ([]int, error) {
	var (
		q   []int
		bad bool
	)
	for {
		l, err := s.lr.next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if l.blank() {
			if len(q) == 0 && !bad {
				continue
			}
			break
		}
		if isACETag(l.text) {
			s.lr.unread(l)
			break
		}
		for _, f := range strings.Fields(l.text) {
			v, err := strconv.Atoi(f)
			if err != nil {
				bad = true
				continue
			}
			q = append(q, v)
		}
	}
	if bad {
		return nil, ErrBadQuality
	}
	return q, nil
}

// skipTagBlock discards lines through the closing "}".
func (s *Scanner) skipTagBlock(ctx context.Context) error {
	for {
		l, err := s.lr.next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(l.text) == "}" {
			return nil
		}
	}
}
