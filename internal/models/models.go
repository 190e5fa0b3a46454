package models

// TextChunk represents a chunk of a reference document
type TextChunk struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Metadata contains information about where a chunk came from
type Metadata struct {
	Document   string `json:"document"`
	ChunkIndex int    `json:"chunk_index"`
}

// ScoredChunk is a chunk returned by a similarity search
type ScoredChunk struct {
	Chunk TextChunk `json:"chunk"`
	Score float32   `json:"score"`
}

// ClassificationResult is the top-1 prediction for an image
type ClassificationResult struct {
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}

// PatientContext is everything the answer pipeline needs for one request
type PatientContext struct {
	Diagnosis string `json:"diagnosis"`
	History   string `json:"history"`
	Language  string `json:"language"`
}

// DoAllRequest is the body of POST /api/do_all
type DoAllRequest struct {
	Diagnosis string `json:"diagnosis"`
	History   string `json:"history"`
	Language  string `json:"language"`
}

// DoAllResponse is the successful response of POST /api/do_all
type DoAllResponse struct {
	Causes     string `json:"causes"`
	Treatments string `json:"treatments"`
}

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
