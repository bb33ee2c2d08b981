// internal/assembly/ace_test.go
package assembly

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

const aceSample = `AS 2 3

CO Contig1 12 2 1 U
ACGT*ACGTACG

BQ
20 20 20 20 20 20 20 20 20 20 20

AF read1.g1 U 1
AF read1.y1 C 3
BS 1 12 read1.g1

RD read1.g1 8 0 0
ACGT*ACG

QA 1 8 1 8
DS CHROMAT_FILE: read1.g1 PHD_FILE: read1.g1.phd.1

RD read1.y1 6 0 0
GT*A
CG

QA 1 6 1 6

CT{
Contig1 repeat consed 1 4 020101:120000
}

CO Contig2 6 1 1 U
AACCGG

AF r3 U 1

RD r3 6 0 0
AACTGG

QA 2 6 2 6
RT{
r3 comment consed 1 2 020101:120000
}
`

func aceScanner(data string) *Scanner {
	return NewScanner(strings.NewReader(data), FormatACE)
}

func TestACENext(t *testing.T) {
	ctx := context.Background()
	s := aceScanner(aceSample)

	c1, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("first contig: %v", err)
	}
	if c1.Name != "Contig1" || c1.Number != 1 || c1.Length != 12 || c1.ReadCount != 2 {
		t.Fatalf("header = %+v", c1.Header)
	}
	if string(c1.Seq) != "ACGT*ACGTACG" {
		t.Fatalf("consensus = %q", c1.Seq)
	}
	if len(c1.Quality) != 11 {
		t.Fatalf("quality has %d values", len(c1.Quality))
	}
	if len(c1.Reads) != 2 || len(c1.Dropped) != 0 {
		t.Fatalf("reads=%d dropped=%v", len(c1.Reads), c1.Dropped)
	}
	want := ReadRecord{Name: "read1.y1", Seq: []byte("GT*ACG"), Complemented: true, Start: 3, ClipStart: 1, ClipEnd: 6, Line: 19}
	if got := c1.Reads[1]; !reflect.DeepEqual(got, want) {
		t.Fatalf("read 2 = %+v\nwant %+v", got, want)
	}

	c2, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("second contig: %v", err)
	}
	if c2.Name != "Contig2" || c2.Number != 2 || len(c2.Reads) != 1 {
		t.Fatalf("contig 2 = %+v", c2)
	}
	if r := c2.Reads[0]; r.ClipStart != 2 || r.ClipEnd != 6 {
		t.Fatalf("clip = %d-%d", r.ClipStart, r.ClipEnd)
	}
	if _, err := s.Next(ctx); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestACEFilter(t *testing.T) {
	s := aceScanner(aceSample)
	s.Filter(func(h Header) bool { return h.Number == 2 })
	c, err := s.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Contig2" {
		t.Fatalf("got %s", c.Name)
	}
	if _, err := s.Next(context.Background()); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestACEHeaders(t *testing.T) {
	s := aceScanner(aceSample)
	var hs []Header
	for {
		h, err := s.NextHeader(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		hs = append(hs, h)
	}
	if len(hs) != 2 {
		t.Fatalf("headers = %+v", hs)
	}
	if off := int64(strings.Index(aceSample, "CO Contig2")); hs[1].Offset != off {
		t.Fatalf("offset = %d, want %d", hs[1].Offset, off)
	}
	if hs[0].Line != 3 {
		t.Fatalf("line = %d", hs[0].Line)
	}
}

func TestACENumberFallsBackToOrdinal(t *testing.T) {
	data := "CO alpha 4 0 0 U\nACGT\n\nCO beta 4 0 0 U\nACGT\n\n"
	s := aceScanner(data)
	for _, want := range []int{1, 2} {
		h, err := s.NextHeader(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if h.Number != want {
			t.Fatalf("%s numbered %d, want %d", h.Name, h.Number, want)
		}
	}
}

func TestACESyntaxError(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"short CO", "CO Contig1 12\n", 1},
		{"non-integer CO", "CO Contig1 x 2 1 U\nACGT\n", 1},
		{"bad AF", "CO Contig1 4 1 1 U\nACGT\n\nAF r1 U\n", 4},
		{"bad QA", "CO Contig1 4 1 1 U\nACGT\n\nAF r1 U 1\n\nRD r1 4 0 0\nACGT\n\nQA one 4 1 4\n", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := aceScanner(tt.data).Next(context.Background())
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("want *SyntaxError, got %v", err)
			}
			if se.Line != tt.line {
				t.Fatalf("line = %d, want %d", se.Line, tt.line)
			}
		})
	}
}

func TestACEDroppedReads(t *testing.T) {
	data := `CO Contig1 8 2 1 U
ACGTACGT

AF a U 1
AF b U 1

RD a 4 0 0
ACGT

QA 1 4 1 4

RD stray 4 0 0
ACGT

QA 1 4 1 4
`
	c, err := aceScanner(data).Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Reads) != 1 || c.Reads[0].Name != "a" {
		t.Fatalf("reads = %+v", c.Reads)
	}
	if len(c.Dropped) != 1 || c.Dropped[0].Read != "stray" || !errors.Is(c.Dropped[0], ErrNoPlacement) {
		t.Fatalf("dropped = %v", c.Dropped)
	}
}

func TestACETruncatedRead(t *testing.T) {
	data := `CO Contig1 8 2 1 U
ACGTACGT

AF a U 1
AF b U 1

RD a 6 0 0
ACGT

QA 1 4 1 4

RD b 4 0 0
ACGT
`
	c, err := aceScanner(data).Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Reads) != 0 || len(c.Dropped) != 2 {
		t.Fatalf("reads=%v dropped=%v", c.Reads, c.Dropped)
	}
	for _, d := range c.Dropped {
		if !errors.Is(d, ErrTruncatedRead) {
			t.Fatalf("%s: %v", d.Read, d.Err)
		}
	}
}

func TestACEBadQualityIsContigScoped(t *testing.T) {
	data := `CO Contig1 4 1 1 U
ACGT

BQ
20 x 20 20

AF a U 1

RD a 4 0 0
ACGT

QA 1 4 1 4

CO Contig2 4 0 0 U
ACGT

`
	s := aceScanner(data)
	_, err := s.Next(context.Background())
	var re *RecordError
	if !errors.As(err, &re) || !errors.Is(err, ErrBadQuality) {
		t.Fatalf("want RecordError wrapping ErrBadQuality, got %v", err)
	}
	if re.Header.Name != "Contig1" {
		t.Fatalf("header = %+v", re.Header)
	}
	c, err := s.Next(context.Background())
	if err != nil || c.Name != "Contig2" {
		t.Fatalf("scanning did not resume: %v %v", c, err)
	}
}

func TestACECancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := aceScanner(aceSample).Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
