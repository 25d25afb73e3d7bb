package domain

import (
	"context"
	"time"
)

// ChunkFunc receives one raw text fragment of a streaming model response.
// Returning an error stops the stream.
type ChunkFunc func(chunk string) error

// TextGenerator is the single operation the pipeline needs from a generative
// model: submit a prompt, get back either one blob or a sequence of chunks.
// No structure, count or framing is guaranteed by implementations; the
// generation pipeline compensates for all of that.
type TextGenerator interface {
	// Generate performs one non-streaming call and returns the full text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Stream performs one streaming call, invoking onChunk for every
	// fragment as it arrives. Returns after the stream is fully consumed.
	Stream(ctx context.Context, prompt string, onChunk ChunkFunc) error
}

// Cache is the minimal key-value cache the sync generation path uses for
// completed batches.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Ping(ctx context.Context) error
}
