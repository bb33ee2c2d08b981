// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"contigkit/internal/jsonlutil"
	"contigkit/internal/output"
)

// StartContigJSONLWriter streams each contig as one JSON line (v1).
func StartContigJSONLWriter(out io.Writer, bufSize int) (chan<- output.Contig, <-chan error) {
	return jsonlutil.Start[output.Contig](out, bufSize,
		func(enc *json.Encoder, c output.Contig) error {
			return enc.Encode(output.ToAPIContig(c, false))
		},
		IsBrokenPipe,
	)
}

func writeJSONL(out io.Writer, in <-chan output.Contig, opt Options) error {
	ch, done := StartContigJSONLWriter(out, 0)
	for c := range ordered(in, opt.Sort) {
		ch <- c
	}
	close(ch)
	return <-done
}
