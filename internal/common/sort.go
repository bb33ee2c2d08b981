// internal/common/sort.go
package common

import (
	"sort"

	"contigkit/internal/output"
)

// LessContig defines a stable order for contigs (for --sort): by source
// file, then contig number, then name.
func LessContig(a, b output.Contig) bool {
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Name < b.Name
}

func SortContigs(cs []output.Contig) {
	sort.SliceStable(cs, func(i, j int) bool { return LessContig(cs[i], cs[j]) })
}
