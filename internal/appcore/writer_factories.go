package appcore

import (
	"io"

	"contigkit/internal/output"
	"contigkit/internal/writers"
)

// ---------------- Contig writer ----------------

type ContigWriterFactory struct {
	Format string
	Sort   bool
	Header bool
}

func NewContigWriterFactory(format string, sort, header bool) ContigWriterFactory {
	return ContigWriterFactory{Format: format, Sort: sort, Header: header}
}

func (w ContigWriterFactory) Start(out io.Writer, bufSize int) (chan<- output.Contig, <-chan error) {
	return writers.StartContigWriter(out, w.Format, writers.Options{Sort: w.Sort, Header: w.Header}, bufSize)
}
