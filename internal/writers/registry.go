// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"contigkit/internal/output"
)

// Options are the presentation switches shared by every contig writer.
type Options struct {
	Sort   bool
	Header bool
	Pretty bool // text detail only: draw each read's alignment
}

// ContigWriterFunc drains in and writes every contig to out.
type ContigWriterFunc func(out io.Writer, in <-chan output.Contig, opt Options) error

// Writer registry (format → handler). Register in init() blocks of the
// format files.
var ContigWriters = map[string]ContigWriterFunc{}

// RegisterContig adds or replaces the writer for format (last wins).
func RegisterContig(format string, fn ContigWriterFunc) { ContigWriters[format] = fn }

// Formats lists the registered contig formats.
func Formats() []string {
	out := make([]string, 0, len(ContigWriters))
	for f := range ContigWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteContigs dispatches to the writer registered for format.
func WriteContigs(format string, out io.Writer, in <-chan output.Contig, opt Options) error {
	fn, ok := ContigWriters[format]
	if !ok {
		drain(in)
		return fmt.Errorf("unknown contig format %q (no writer registered)", format)
	}
	return fn(out, in, opt)
}

func drain(in <-chan output.Contig) {
	for range in {
	}
}
