// Package models defines the records, requests and responses exchanged by the vector service.
package models

// Record is one corpus entry. Embedding has one element per UTF-8 byte of Text.
type Record struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}
