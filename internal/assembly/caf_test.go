package assembly

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

// reads arrive before their contig, contig DNA after it
const cafSample = `Sequence : r1
Is_read
Template "tmpl1"
Strand Forward
Clipping QUAL 1 8

DNA : r1
ACGT-ACG

Sequence : Contig1
Is_contig
Assembled_from r1 1 8 1 8
Assembled_from r2 3 8 1 6

DNA : Contig1
ACGT-A
CGTACG

BaseQuality : Contig1
20 20 20 20 20 20 20 20 20 20 20

Sequence : r2
Is_read
Strand Reverse

BaseQuality : r2
10 20 30 40 50

DNA : r2
GT-ACG

Sequence : Contig2
Is_contig
Assembled_from r4 2 5 1 4

DNA : Contig2
AACCGG

Sequence : r4
Is_read
Clipping QUAL 2 3

DNA : r4
ACCG
`

func cafScanner(data string) *Scanner {
	return NewScanner(strings.NewReader(data), FormatCAF)
}

func TestCAFNext(t *testing.T) {
	ctx := context.Background()
	s := cafScanner(cafSample)

	c1, err := s.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c1.Name != "Contig1" || c1.Number != 1 || c1.ReadCount != 2 || c1.Format != FormatCAF {
		t.Fatalf("header = %+v", c1.Header)
	}
	if string(c1.Seq) != "ACGT-ACGTACG" || c1.Length != 12 {
		t.Fatalf("consensus = %q (%d)", c1.Seq, c1.Length)
	}
	if len(c1.Quality) != 11 {
		t.Fatalf("quality = %v", c1.Quality)
	}
	if len(c1.Reads) != 2 || len(c1.Dropped) != 0 {
		t.Fatalf("reads=%+v dropped=%v", c1.Reads, c1.Dropped)
	}
	r1 := c1.Reads[0]
	if r1.Template != "tmpl1" || r1.Complemented || r1.Start != 1 || string(r1.Seq) != "ACGT-ACG" {
		t.Fatalf("r1 = %+v", r1)
	}
	r2 := c1.Reads[1]
	if !r2.Complemented || r2.Start != 3 || r2.ClipStart != 1 || r2.ClipEnd != 6 {
		t.Fatalf("r2 = %+v", r2)
	}
	if !reflect.DeepEqual(r2.Quality, []int{10, 20, 30, 40, 50}) {
		t.Fatalf("r2 quality = %v", r2.Quality)
	}

	c2, err := s.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	r4 := c2.Reads[0]
	// placement 1-4 narrowed by Clipping QUAL 2-3
	if r4.Start != 2 || r4.ClipStart != 2 || r4.ClipEnd != 3 {
		t.Fatalf("r4 = %+v", r4)
	}
	if _, err := s.Next(ctx); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestCAFFilter(t *testing.T) {
	s := cafScanner(cafSample)
	s.Filter(func(h Header) bool { return h.Name == "Contig2" })
	c, err := s.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Contig2" || len(c.Reads) != 1 {
		t.Fatalf("got %+v", c)
	}
	if _, err := s.Next(context.Background()); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestCAFHeaders(t *testing.T) {
	s := cafScanner(cafSample)
	var names []string
	for {
		h, err := s.NextHeader(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, h.Name)
		if h.Name == "Contig1" && h.ReadCount != 2 {
			t.Fatalf("read count = %d", h.ReadCount)
		}
	}
	if !reflect.DeepEqual(names, []string{"Contig1", "Contig2"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestCAFDroppedReads(t *testing.T) {
	data := `Sequence : Contig7
Is_contig
Assembled_from ok 1 4 1 4
Assembled_from bent 1 4 1 6
Assembled_from ghost 1 4 1 4

DNA : Contig7
ACGTACGT

Sequence : ok
Is_read

DNA : ok
ACGT

Sequence : bent
Is_read

DNA : bent
ACGTAC
`
	c, err := cafScanner(data).Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Number != 7 {
		t.Fatalf("number = %d", c.Number)
	}
	if len(c.Reads) != 1 || c.Reads[0].Name != "ok" {
		t.Fatalf("reads = %+v", c.Reads)
	}
	want := map[string]error{"bent": ErrPlacementShape, "ghost": ErrMissingRead}
	if len(c.Dropped) != len(want) {
		t.Fatalf("dropped = %v", c.Dropped)
	}
	for _, d := range c.Dropped {
		if !errors.Is(d, want[d.Read]) {
			t.Fatalf("%s: %v", d.Read, d.Err)
		}
	}
}

func TestCAFReversedPlacement(t *testing.T) {
	// r1 is stored in read orientation; its reverse complement AAGTTGCA
	// matches the contig from position 1 with clip 3-8
	data := `Sequence : Contig1
Is_contig
Assembled_from r1 8 3 1 6

DNA : Contig1
ACGTTGCAAT

Sequence : r1
Is_read
Clipping QUAL 1 7

DNA : r1
TGCAACTT

BaseQuality : r1
1 2 3 4 5 6 7 8
`
	c, err := cafScanner(data).Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Reads) != 1 || len(c.Dropped) != 0 {
		t.Fatalf("reads=%+v dropped=%v", c.Reads, c.Dropped)
	}
	r := c.Reads[0]
	if string(r.Seq) != "AAGTTGCA" || !r.Complemented {
		t.Fatalf("read = %+v", r)
	}
	if r.Start != 1 || r.ClipStart != 3 || r.ClipEnd != 8 {
		t.Fatalf("start=%d clip=%d-%d", r.Start, r.ClipStart, r.ClipEnd)
	}
	if !reflect.DeepEqual(r.Quality, []int{8, 7, 6, 5, 4, 3, 2, 1}) {
		t.Fatalf("quality = %v", r.Quality)
	}
	for i := r.ClipStart; i <= r.ClipEnd; i++ {
		if r.Seq[i-1] != c.Seq[r.Start+i-2] {
			t.Fatalf("read base %d %c over contig %c", i, r.Seq[i-1], c.Seq[r.Start+i-2])
		}
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"ACGT", "ACGT"},
		{"AAC-G", "C-GTT"},
		{"acgn*", "*ncgt"},
		{"RYKM", "KMRY"},
	}
	for _, tt := range tests {
		if got := string(reverseComplement([]byte(tt.in))); got != tt.want {
			t.Errorf("reverseComplement(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCAFMissingContigDNA(t *testing.T) {
	data := "Sequence : Contig1\nIs_contig\n"
	_, err := cafScanner(data).Next(context.Background())
	var re *RecordError
	if !errors.As(err, &re) || re.Header.Name != "Contig1" {
		t.Fatalf("want RecordError, got %v", err)
	}
}

func TestCAFSyntaxError(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"bad entry header", "Sequence Contig1\nIs_contig\n", 1},
		{"short Assembled_from", "Sequence : Contig1\nIs_contig\nAssembled_from r1 1 4\n", 3},
		{"non-integer Assembled_from", "Sequence : Contig1\nIs_contig\nAssembled_from r1 1 x 1 4\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cafScanner(tt.data).Next(context.Background())
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
