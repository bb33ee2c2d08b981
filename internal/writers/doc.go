// Package writers turns finished contigs into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV summaries, JSONL).
//   - The contig iterator stays domain-only; the app only wires channels.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
