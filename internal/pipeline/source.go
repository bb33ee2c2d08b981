// internal/pipeline/source.go
package pipeline

import (
	"context"

	"contigkit/internal/contig"
)

// Source is the minimal capability the pipeline needs from one file.
// Any iterator (including fakes in tests) can satisfy this.
type Source interface {
	Next() bool
	Result() contig.Result
	Err() error
	Interrupted() bool
	Close() error
}

// Opener starts a Source for path.
type Opener func(ctx context.Context, path string, opts contig.Options) (Source, error)

// OpenIterator is the default Opener.
func OpenIterator(ctx context.Context, path string, opts contig.Options) (Source, error) {
	it, err := contig.Open(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return it, nil
}
