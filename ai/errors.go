package ai

import "errors"

var (
	// ErrRateLimited indicates the service rejected the call due to rate
	// limiting. Callers should back off before retrying.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyResponse indicates the model returned no usable output.
	ErrEmptyResponse = errors.New("empty model response")
)
