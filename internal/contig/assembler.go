// internal/contig/assembler.go
package contig

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"contigkit/internal/align"
	"contigkit/internal/assembly"
	"contigkit/internal/gapmap"
	"contigkit/internal/mates"
	"contigkit/internal/model"
)

// Assembler turns raw contig records into ReferenceSequences.
type Assembler struct {
	Realign     bool
	Aligner     align.Aligner // nil selects align.SmithWaterman
	Scoring     *align.Scoring
	PadFraction float64
	Source      string // stamped on every contig
	Log         logrus.FieldLogger
}

func (a *Assembler) logger() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	return discard
}

var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (a *Assembler) reconstructor(gap byte) *align.Reconstructor {
	return &align.Reconstructor{
		Gap:         gap,
		Realign:     a.Realign,
		Aligner:     a.Aligner,
		PadFraction: a.PadFraction,
		Scoring:     a.Scoring,
	}
}

// Assemble builds one contig. Reads that cannot be placed are logged and
// left out; only cancellation fails the whole contig.
func (a *Assembler) Assemble(ctx context.Context, rec *assembly.ContigRecord) (*model.ReferenceSequence, error) {
	c, _, err := a.build(ctx, rec)
	return c, err
}

func (a *Assembler) build(ctx context.Context, rec *assembly.ContigRecord) (*model.ReferenceSequence, []*assembly.ReadError, error) {
	log := a.logger().WithFields(logrus.Fields{"contig": rec.Name, "number": rec.Number})
	gap := rec.Format.GapMarker()
	clean, gaps := gapmap.Ungap(rec.Seq, gap)

	c := model.NewReferenceSequence(rec.Number, rec.Name, clean)
	c.Source = a.Source
	if len(rec.Quality) > 0 {
		if !c.SetQuality(consensusQuality(rec.Quality, rec.Seq, gap)) {
			log.WithField("values", len(rec.Quality)).Warn("consensus quality length does not match; ignored")
		}
	}

	dropped := append([]*assembly.ReadError(nil), rec.Dropped...)
	for _, d := range rec.Dropped {
		log.WithFields(logrus.Fields{"read": d.Read, "line": d.Line}).Warn(d.Err)
	}

	recon := a.reconstructor(gap)
	strain := &model.Strain{ID: 1, Name: rec.Name}
	var pairs mates.Resolver
	for i := range rec.Reads {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		rr := &rec.Reads[i]
		p, err := recon.Reconstruct(align.Input{
			ReadSeq:      rr.Seq,
			ClipStart:    rr.ClipStart,
			ClipEnd:      rr.ClipEnd,
			ContigSeq:    rec.Seq,
			ContigGaps:   gaps,
			Start:        rr.Start,
			Complemented: rr.Complemented,
			ReadQuality:  rr.Quality,
		})
		if err != nil {
			re := &assembly.ReadError{Read: rr.Name, Line: rr.Line, Err: err}
			log.WithFields(logrus.Fields{"read": rr.Name, "line": rr.Line}).Warn(err)
			dropped = append(dropped, re)
			continue
		}
		r := &model.Read{
			ID:        len(c.Reads) + 1,
			Name:      rr.Name,
			Template:  rr.Template,
			Length:    p.Length,
			Seq:       p.Seq,
			Alignment: p.Alignment,
		}
		c.AddRead(r)
		pairs.Add(r)
		strain.Add(r)
	}
	c.Strains[strain.ID] = strain

	log.WithFields(logrus.Fields{
		"reads":    len(c.Reads),
		"dropped":  len(dropped),
		"pairs":    pairs.Pairs(),
		"unpaired": pairs.Pending(),
	}).Debug("contig assembled")
	return c, dropped, nil
}

// consensusQuality returns one value per gap-free consensus base. Values
// given per padded column lose the entries that sit on pads; anything else
// is returned unchanged for the length check in SetQuality.
func consensusQuality(q []int, gapped []byte, gap byte) []int {
	if len(q) != len(gapped) {
		return q
	}
	out := make([]int, 0, len(q))
	for i, b := range gapped {
		if b != gap {
			out = append(out, q[i])
		}
	}
	return out
}
