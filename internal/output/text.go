// internal/output/text.go
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"contigkit/internal/assembly"
)

// StreamText prints one summary row per contig as contigs arrive.
func StreamText(w io.Writer, in <-chan Contig, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		if _, err := fmt.Fprintln(bw, TSVHeader); err != nil {
			return err
		}
	}
	for c := range in {
		if _, err := fmt.Fprintln(bw, FormatContigRowTSV(c)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteText prints summary rows for an already collected list.
func WriteText(w io.Writer, list []Contig, header bool) error {
	ch := make(chan Contig, len(list))
	for _, c := range list {
		ch <- c
	}
	close(ch)
	return StreamText(w, ch, header)
}

// WriteContigDetail prints a contig summary followed by one row per read
// and, indented under it, the read's differences.
func WriteContigDetail(w io.Writer, c Contig, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		fmt.Fprintln(bw, TSVHeader)
	}
	fmt.Fprintln(bw, FormatContigRowTSV(c))
	fmt.Fprintln(bw)
	if header {
		fmt.Fprintln(bw, ReadTSVHeader)
	}
	for _, r := range SortedReads(c.ReferenceSequence) {
		fmt.Fprintln(bw, FormatReadRowTSV(c.ReferenceSequence, r))
		if len(r.Diffs) == 0 {
			continue
		}
		parts := make([]string, 0, len(r.Diffs))
		for d := range r.All() {
			parts = append(parts, FormatDiff(d))
		}
		fmt.Fprintf(bw, "  %s\n", strings.Join(parts, " "))
	}
	for _, d := range c.Dropped {
		fmt.Fprintf(bw, "# dropped %s: %v\n", d.Read, d.Err)
	}
	return bw.Flush()
}

// HeaderRow is a scanned header and the file it came from.
type HeaderRow struct {
	Header assembly.Header
	Source string
}

// WriteHeadersText prints one row per header.
func WriteHeadersText(w io.Writer, rows []HeaderRow, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		fmt.Fprintln(bw, HeaderTSVHeader)
	}
	for _, r := range rows {
		fmt.Fprintln(bw, FormatHeaderRowTSV(r.Header, r.Source))
	}
	return bw.Flush()
}
