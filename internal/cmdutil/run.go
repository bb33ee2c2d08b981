package cmdutil

import (
	"context"

	"contigkit/internal/output"
	"contigkit/internal/pipeline"
)

// RunStream runs the shared pipeline, applies a visitor, and streams results via send.
// It returns the number of kept outputs, the pipeline stats and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	files []string,
	visit func(output.Contig) (bool, T, error),
	send func(T) error,
) (int, pipeline.Stats, error) {
	total := 0
	st, err := pipeline.ForEachContig(ctx, cfg, files, func(c output.Contig) error {
		keep, out, vErr := visit(c)
		if vErr != nil {
			return vErr
		}
		if !keep {
			return nil
		}
		if err := send(out); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, st, err
}
