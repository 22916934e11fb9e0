package port

import "context"

// Message is a single turn in a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Embedder converts text into a fixed-length vector representation.
// Implementations can target Ollama, OpenAI, or any compatible API.
type Embedder interface {
	// Dimension returns the embedding size produced by the model.
	Dimension() int

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer runs a chat completion against a fixed model. Temperature is
// per-call because the pipeline generates at a non-zero temperature but
// verifies at exactly zero.
type Completer interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete sends the messages and returns the generated text.
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}
