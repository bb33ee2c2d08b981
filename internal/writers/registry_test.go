package writers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"reflect"
	"strings"
	"syscall"
	"testing"

	"contigkit/internal/model"
	"contigkit/internal/output"
	"contigkit/pkg/api"
)

func contigs(names ...string) []output.Contig {
	out := make([]output.Contig, len(names))
	for i, n := range names {
		c := model.NewReferenceSequence(len(names)-i, n, []byte("ACGT"))
		c.Source = "f.ace"
		out[i] = output.Contig{ReferenceSequence: c}
	}
	return out
}

func run(t *testing.T, w io.Writer, format string, opt Options, list []output.Contig) error {
	t.Helper()
	in, done := StartContigWriter(w, format, opt, 1)
	for _, c := range list {
		in <- c
	}
	close(in)
	return <-done
}

func TestUnknownContigFormatError(t *testing.T) {
	var b bytes.Buffer
	err := run(t, &b, "nope-format", Options{}, contigs("a", "b"))
	if err == nil || !strings.Contains(err.Error(), "unknown contig format") {
		t.Fatalf("want 'unknown contig format' error, got: %v", err)
	}
}

func TestFormatsRegistered(t *testing.T) {
	if got := Formats(); !reflect.DeepEqual(got, []string{"jsonl", "text"}) {
		t.Fatalf("formats = %v", got)
	}
}

func TestTextSorted(t *testing.T) {
	var b bytes.Buffer
	if err := run(t, &b, "text", Options{Sort: true, Header: true}, contigs("Contig3", "Contig2", "Contig1")); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 4 || lines[0] != output.TSVHeader {
		t.Fatalf("output:\n%s", b.String())
	}
	for i, want := range []string{"Contig1", "Contig2", "Contig3"} {
		if f := strings.Split(lines[i+1], "\t"); f[2] != want {
			t.Fatalf("row %d = %q, want %s", i+1, lines[i+1], want)
		}
	}
}

func TestJSONLOneLinePerContig(t *testing.T) {
	var b bytes.Buffer
	if err := run(t, &b, "jsonl", Options{}, contigs("a", "b")); err != nil {
		t.Fatal(err)
	}
	dec := json.NewDecoder(&b)
	var names []string
	for dec.More() {
		var v api.ContigV1
		if err := dec.Decode(&v); err != nil {
			t.Fatal(err)
		}
		if v.Consensus != "" {
			t.Fatal("jsonl stream must not carry the consensus")
		}
		names = append(names, v.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("names = %v", names)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterErrorDoesNotBlockProducer(t *testing.T) {
	list := contigs("a", "b", "c", "d", "e")
	if err := run(t, failWriter{}, "text", Options{}, list); err == nil {
		t.Fatal("expected write error")
	}
}

func TestIsBrokenPipe(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("disk full"), false},
		{io.ErrClosedPipe, true},
		{&os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}, true},
		{os.ErrClosed, true},
	}
	for _, tt := range tests {
		if got := IsBrokenPipe(tt.err); got != tt.want {
			t.Fatalf("IsBrokenPipe(%v) = %v", tt.err, got)
		}
	}
}
