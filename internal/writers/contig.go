// internal/writers/contig.go
package writers

import (
	"io"

	"contigkit/internal/common"
	"contigkit/internal/output"
)

func init() {
	RegisterContig("text", writeText)
	RegisterContig("jsonl", writeJSONL)
}

// StartContigWriter spins up a writer goroutine for finished contigs. The
// returned error channel yields exactly one value after in is closed.
func StartContigWriter(out io.Writer, format string, opt Options, bufSize int) (chan<- output.Contig, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan output.Contig, bufSize)
	errCh := make(chan error, 1)
	go func() {
		errCh <- WriteContigs(format, out, in, opt)
	}()
	return in, errCh
}

// ordered passes in through unchanged, or collects and sorts it first.
func ordered(in <-chan output.Contig, sorted bool) <-chan output.Contig {
	if !sorted {
		return in
	}
	var buf []output.Contig
	for c := range in {
		buf = append(buf, c)
	}
	common.SortContigs(buf)
	out := make(chan output.Contig, len(buf))
	for _, c := range buf {
		out <- c
	}
	close(out)
	return out
}

func writeText(out io.Writer, in <-chan output.Contig, opt Options) error {
	err := output.StreamText(out, ordered(in, opt.Sort), opt.Header)
	if err != nil {
		drain(in)
	}
	return err
}
