package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contigkit/internal/assembly"
	"contigkit/internal/contig"
	"contigkit/internal/model"
	"contigkit/internal/output"
)

// Compile-time check: the concrete iterator satisfies the minimal contract.
var _ Source = (*contig.Iterator)(nil)

const twoContigs = `CO Contig1 4 1 1 U
ACGT

AF r1 U 1

RD r1 4 0 0
ACGT

QA 1 4 1 4

CO Contig2 4 0 0 U
ACGT

`

func write(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestForEachContigKeepsGoingAfterBadFile(t *testing.T) {
	good := write(t, "good.ace", twoContigs)
	bad := write(t, "bad.ace", "CO Contig1 x 1 1 U\n")
	missing := filepath.Join(t.TempDir(), "missing.ace")

	var names []string
	st, err := ForEachContig(context.Background(), Config{}, []string{bad, missing, good}, func(c output.Contig) error {
		names = append(names, c.Source+":"+c.Name)
		return nil
	})
	var se *assembly.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want first error to be the syntax error, got %v", err)
	}
	if len(names) != 2 || st.Contigs != 2 || st.Files != 2 {
		t.Fatalf("names=%v stats=%+v", names, st)
	}
}

func TestForEachContigVisitErrorStops(t *testing.T) {
	good := write(t, "good.ace", twoContigs)
	boom := errors.New("boom")
	n := 0
	_, err := ForEachContig(context.Background(), Config{}, []string{good, good}, func(output.Contig) error {
		n++
		return boom
	})
	if !errors.Is(err, boom) || n != 1 {
		t.Fatalf("err=%v n=%d", err, n)
	}
}

// fake source implementing the Source interface
type fakeSource struct {
	results []contig.Result
	i       int
	closed  int
}

func (f *fakeSource) Next() bool {
	if f.i >= len(f.results) {
		return false
	}
	f.i++
	return true
}
func (f *fakeSource) Result() contig.Result { return f.results[f.i-1] }
func (f *fakeSource) Err() error            { return nil }
func (f *fakeSource) Interrupted() bool     { return false }
func (f *fakeSource) Close() error          { f.closed++; return nil }

type fakeTracker struct{ finished, ok bool }

func (f *fakeTracker) SetMessage(string) {}
func (f *fakeTracker) SetTotal(int64)    {}
func (f *fakeTracker) SetCurrent(int64)  {}
func (f *fakeTracker) Finish(ok bool)    { f.finished, f.ok = true, ok }

func TestForEachContigUsesSource(t *testing.T) {
	src := &fakeSource{results: []contig.Result{
		{Contig: model.NewReferenceSequence(1, "a", nil), Dropped: []*assembly.ReadError{{Read: "x"}}},
		{Err: &contig.ContigError{Number: 2, Name: "b", Err: errors.New("bad")}},
		{Contig: model.NewReferenceSequence(3, "c", nil)},
	}}
	tr := &fakeTracker{}
	cfg := Config{
		Open:  func(context.Context, string, contig.Options) (Source, error) { return src, nil },
		Track: func(string) Tracker { return tr },
	}
	st, err := ForEachContig(context.Background(), cfg, []string{"x"}, func(output.Contig) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if st.Contigs != 2 || st.Failed != 1 || st.Dropped != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if src.closed != 1 || !tr.finished || !tr.ok {
		t.Fatalf("closed=%d tracker=%+v", src.closed, tr)
	}
}

func TestForEachContigCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	good := write(t, "good.ace", twoContigs)
	st, err := ForEachContig(ctx, Config{}, []string{good}, func(output.Contig) error { return nil })
	if !errors.Is(err, context.Canceled) || !st.Interrupted {
		t.Fatalf("err=%v stats=%+v", err, st)
	}
}
