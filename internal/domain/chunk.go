package domain

import "time"

// Chunk is one stored unit of text with its embedding and provenance.
// Chunks are immutable once written to the vector store.
type Chunk struct {
	ID        string    `json:"id"         db:"id"`
	Text      string    `json:"text"       db:"content"`
	Source    string    `json:"source"     db:"source"`
	Vector    []float32 `json:"-"          db:"vector"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Match is a retrieved chunk with its similarity score. Produced per query,
// never persisted.
type Match struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
	Source  string  `json:"source"`
}

// QueryResult is the response contract of the query pipeline.
// When IsSafe is false, Answer is always the fixed refusal sentence — the
// generated text is never returned. Contexts always reflects raw retrieval,
// in store order, regardless of the verification verdict.
type QueryResult struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	IsSafe   bool     `json:"is_safe"`
	Contexts []string `json:"contexts"`
}
