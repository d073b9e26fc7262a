// Package chunk splits extracted documents into token-bounded pieces ready
// for embedding.
//
// Splitting is recursive over a separator hierarchy, so paragraph and
// sentence boundaries are preferred over hard cuts. Sizes are measured in
// tokens of the embedding model's encoding, not bytes, so every chunk fits
// the embedding context window. Consecutive chunks overlap to preserve
// context across boundaries.
package chunk
