// pkg/api/contigs_v1.go
package api

// ContigV1 is the stable JSON/JSONL schema for one assembled contig.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ContigV1 struct {
	Number     int        `json:"number"`
	Name       string     `json:"name"`
	SourceFile string     `json:"source_file,omitempty"`
	Length     int        `json:"length"`
	Digest     string     `json:"digest"` // hex BLAKE2b-256 of the gap-free consensus
	Consensus  string     `json:"consensus,omitempty"`
	Quality    []int      `json:"quality,omitempty"`
	Reads      []ReadV1   `json:"reads"`
	Strains    []StrainV1 `json:"strains"`
	Dropped    []DropV1   `json:"dropped,omitempty"`
}

// ReadV1 is one placed read. Coordinates are 1-based, inclusive, gap-free.
type ReadV1 struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Template  string         `json:"template,omitempty"`
	Length    int            `json:"length"`
	Strand    string         `json:"strand"` // "+" | "-"
	RefStart  int            `json:"ref_start"`
	RefEnd    int            `json:"ref_end"`
	ReadStart int            `json:"read_start"`
	ReadEnd   int            `json:"read_end"`
	Score     int            `json:"score"`
	Realigned bool           `json:"realigned,omitempty"`
	Mate      string         `json:"mate,omitempty"`
	Diffs     []DifferenceV1 `json:"diffs,omitempty"`
}

// DifferenceV1 is one mismatching column; a gap side is "-".
type DifferenceV1 struct {
	RefPos   int    `json:"ref_pos"`
	RefBase  string `json:"ref_base"`
	ReadPos  int    `json:"read_pos"`
	ReadBase string `json:"read_base"`
	Quality  *int   `json:"quality,omitempty"`
}

// StrainV1 groups reads of a contig.
type StrainV1 struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Reads []int  `json:"reads"`
}

// DropV1 is a read that could not be placed.
type DropV1 struct {
	Read   string `json:"read"`
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
}

// HeaderV1 is one entry of a header-only scan.
type HeaderV1 struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	SourceFile string `json:"source_file,omitempty"`
	Length     int    `json:"length,omitempty"` // declared padded length
	Reads      int    `json:"reads"`
	Offset     int64  `json:"offset"`
	Line       int    `json:"line"`
}
