// Package memory aggregates document metadata into topic-partitioned
// fact files and answers point queries against them.
//
// Each aggregation pass consumes the full metadata set and rewrites
// every affected category file from scratch: there is no incremental
// merge path, so category content is always a pure function of the
// metadata at aggregation time. The files are plain text so users can
// read and diff them; the query engine re-reads the serialized form
// rather than in-memory state.
package memory
