// Package file implements the ConfigStore port over a TOML file.
//
// Recognised keys (dot notation mirrors the TOML table layout):
//
//	documents.root           directory holding organized documents
//	memory.dir               directory for generated memory files
//	index.staleness_seconds  metadata cache staleness window
//	semantic.endpoint        external AI-search collaborator URL
//	semantic.api_key         collaborator API key
//	semantic.timeout_seconds collaborator call timeout
//	semantic.rate_per_minute collaborator request rate cap
//	history.path             query history database path
//	limits.max_results       default result cap
package file
