// Package domain defines the core business entities for Paperbase.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - MetadataRecord: The structured sidecar metadata for one document
//   - MemoryCategory: A topic-partitioned aggregation of facts
//   - ParsedQuery: A classified, expanded, filterable query
//   - SearchDocumentResult / UnifiedSearchResult: Search output shapes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
