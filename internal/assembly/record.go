package assembly

// Header identifies one contig in a file.
type Header struct {
	Name         string
	Number       int
	Length       int // declared padded length; 0 when the dialect does not say
	ReadCount    int
	Complemented bool
	Offset       int64 // byte offset of the header line
	Line         int
}

// ReadRecord is one read exactly as the file describes it.
type ReadRecord struct {
	Name         string
	Template     string
	Seq          []byte // gapped
	Complemented bool

	// Start is the gapped contig position of read base 1 (may be < 1).
	Start int
	// ClipStart/ClipEnd bound the aligned part of Seq, 1-based inclusive.
	ClipStart, ClipEnd int

	Quality []int
	Line    int
}

// ContigRecord is one contig and its surviving reads before reconstruction.
type ContigRecord struct {
	Header
	Format  Format
	Seq     []byte // gapped consensus
	Quality []int
	Reads   []ReadRecord
	Dropped []*ReadError
}
