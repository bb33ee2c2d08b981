package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"contigkit/internal/output"
	"contigkit/internal/pretty"
)

// WriteContig writes one fetched contig in full: reads, differences and
// (for jsonl) the consensus.
func WriteContig(out io.Writer, format string, c output.Contig, opt Options) error {
	switch format {
	case "text":
		if err := output.WriteContigDetail(out, c, opt.Header); err != nil || !opt.Pretty {
			return err
		}
		_, err := io.WriteString(out, "\n"+pretty.RenderContig(c.ReferenceSequence, output.SortedReads(c.ReferenceSequence), pretty.DefaultOptions))
		return err
	case "jsonl":
		return output.WriteJSON(out, c)
	}
	return fmt.Errorf("unknown contig format %q", format)
}

// WriteHeaders writes a header-only listing.
func WriteHeaders(out io.Writer, format string, rows []output.HeaderRow, header bool) error {
	switch format {
	case "text":
		return output.WriteHeadersText(out, rows, header)
	case "jsonl":
		enc := json.NewEncoder(out)
		for _, r := range rows {
			if err := enc.Encode(output.ToAPIHeader(r.Header, r.Source)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown header format %q", format)
}
