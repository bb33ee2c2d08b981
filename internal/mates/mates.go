// Package mates pairs reads that come from the same sequencing template.
package mates

import (
	"regexp"

	"contigkit/internal/model"
)

var (
	// X.g1, X.b2, X.y1 ...: phred-style chemistry suffix
	chemistrySuffix = regexp.MustCompile(`^(.+)\.[A-Za-z]\d+$`)
	// X/1, X/2, X:1, X:2
	pairSuffix = regexp.MustCompile(`^(.+)[/:][12]$`)
)

// Canonical returns the template id encoded in a read name. Names without
// a recognised suffix are their own template.
func Canonical(name string) string {
	if m := chemistrySuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if m := pairSuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// Template is the pairing key of r: its explicit template when the file
// gave one, otherwise the canonical form of its name.
func Template(r *model.Read) string {
	if r.Template != "" {
		return r.Template
	}
	return Canonical(r.Name)
}

// Resolver links reads in a single streaming pass. The first read of a
// template waits in the pending set until its partner arrives; a third
// read with the same template starts a new pair. The zero value is ready.
type Resolver struct {
	pending map[string]*model.Read
	pairs   int
}

// Add offers r to the resolver and returns its mate, if one was waiting.
func (res *Resolver) Add(r *model.Read) (*model.Read, bool) {
	if res.pending == nil {
		res.pending = make(map[string]*model.Read)
	}
	key := Template(r)
	if r.Template == "" {
		r.Template = key
	}
	m, ok := res.pending[key]
	if !ok {
		res.pending[key] = r
		return nil, false
	}
	delete(res.pending, key)
	r.Mate, m.Mate = m.ID, r.ID
	res.pairs++
	return m, true
}

// Pending is the number of reads still waiting for a mate.
func (res *Resolver) Pending() int { return len(res.pending) }

// Pairs is the number of links made so far.
func (res *Resolver) Pairs() int { return res.pairs }
