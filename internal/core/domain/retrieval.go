package domain

import "time"

// ScoredChunk is a single retrieval hit: a chunk paired with its
// normalised similarity score. Scores are in [0, 1], where 1 means
// the chunk embedding points in the same direction as the query.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the normalised cosine similarity to the query.
	Score float64
}

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// K is the maximum number of chunks to retrieve.
	K int

	// ScoreThreshold discards candidates scoring strictly below it.
	// A candidate scoring exactly at the threshold is kept.
	ScoreThreshold float64
}

// Default retrieval parameters.
const (
	// DefaultRetrieveK is the default number of chunks to retrieve.
	DefaultRetrieveK = 4

	// DefaultScoreThreshold is the default minimum similarity score.
	DefaultScoreThreshold = 0.3
)

// WithDefaults fills zero-valued fields with the default parameters.
func (o RetrieveOptions) WithDefaults() RetrieveOptions {
	if o.K <= 0 {
		o.K = DefaultRetrieveK
	}
	if o.ScoreThreshold <= 0 {
		o.ScoreThreshold = DefaultScoreThreshold
	}
	return o
}

// Answer is the result of one complete pass through the RAG pipeline.
type Answer struct {
	// Question is the user's original question.
	Question string

	// Evidence is the retrieved context the answer was grounded on.
	// Empty when no chunk cleared the score threshold.
	Evidence string

	// Text is the generated answer.
	Text string
}

// IndexStats summarises an index build.
type IndexStats struct {
	// Documents is the number of documents indexed.
	Documents int

	// Chunks is the number of chunks embedded and stored.
	Chunks int

	// Dimensions is the embedding vector size used for the build.
	Dimensions int

	// Duration is the wall-clock time the build took.
	Duration time.Duration
}
