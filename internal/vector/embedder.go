package vector

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/parakeet-nest/parakeet/embeddings"
	pkllm "github.com/parakeet-nest/parakeet/llm"
)

// Embedder defines the interface for text embedding models
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder implements the Embedder interface using Ollama's API
type OllamaEmbedder struct {
	baseURL string
	model   string
}

// NewOllamaEmbedder creates a new Ollama embedder
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "mxbai-embed-large"
	}
	return &OllamaEmbedder{baseURL: baseURL, model: model}
}

type embedResult struct {
	record pkllm.VectorRecord
	err    error
}

// Embed converts text to a vector using Ollama's embedding model. The
// request itself cannot be interrupted, so a done ctx abandons it.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	done := make(chan embedResult, 1)
	go func() {
		rec, err := embeddings.CreateEmbedding(e.baseURL, pkllm.Query4Embedding{
			Model:  e.model,
			Prompt: text,
		}, text)
		done <- embedResult{record: rec, err: err}
	}()

	var res embedResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("failed to create embedding with Ollama: %w", res.err)
	}
	if len(res.record.Embedding) == 0 {
		return nil, errors.New("no embedding data returned from Ollama")
	}

	vec := make([]float32, len(res.record.Embedding))
	for i, v := range res.record.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// HashEmbedder returns deterministic vectors derived from character
// trigrams. It needs no model server, so it backs tests and offline runs;
// similar spellings land close together but there is no semantic signal.
type HashEmbedder struct {
	Size int
}

// NewHashEmbedder creates a HashEmbedder producing vectors of the given size.
func NewHashEmbedder(size int) *HashEmbedder {
	if size <= 0 {
		size = 1024
	}
	return &HashEmbedder{Size: size}
}

// Embed hashes every trigram of the padded, lower-cased text into a bucket.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.Size)
	runes := []rune(" " + strings.ToLower(text) + " ")
	for i := 0; i+3 <= len(runes); i++ {
		f := fnv.New32a()
		_, _ = f.Write([]byte(string(runes[i : i+3])))
		vec[int(f.Sum32()%uint32(h.Size))]++
	}
	return vec, nil
}
