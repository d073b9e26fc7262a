// Package ingestion provides pipeline orchestration for loading source
// documents into the vector store.
//
// The Orchestrator type manages one ingestion run, including:
//   - Draining a Source of raw items
//   - Extracting text and splitting it into token-bounded chunks
//   - Optional topic relevance filtering
//   - Replacing each source's chunk generation via delete-then-upsert
//
// Item-level failures are logged and skipped; vector store failures fail
// the whole task. Chunk ids are deterministic, so re-running a task after a
// partial failure converges on the same stored state.
package ingestion
