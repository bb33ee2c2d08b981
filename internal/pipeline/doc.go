// Package pipeline streams contigs out of several assembly files in
// order and calls a visit callback for each one.
//
// The only contract to implement is Source (what contig.Iterator offers).
// This keeps the pipeline swappable and testable.
package pipeline
