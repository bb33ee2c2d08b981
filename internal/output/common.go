package output

// Canonical header rows for text/TSV outputs. Keep these as the single
// source of truth; all writers should use them.
const (
	TSVHeader       = "source_file\tnumber\tname\tlength\treads\tdropped\tpairs\tdiffs\tdigest"
	ReadTSVHeader   = "contig\tread\tstrand\tref_start\tref_end\tread_start\tread_end\tlength\tscore\tdiffs\tmate"
	HeaderTSVHeader = "source_file\tnumber\tname\tlength\treads\toffset\tline"
)
