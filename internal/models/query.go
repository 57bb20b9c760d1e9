package models

import "github.com/hyperjump/vectord/internal/errs"

// InitRequest asks the service to (re)populate its shards. It carries no fields.
type InitRequest struct{}

// SearchRequest is a nearest-neighbour query.
type SearchRequest struct {
	Text string `json:"text"`
	TopN uint32 `json:"top_n"`
}

// Validate rejects requests the service must not run.
func (q *SearchRequest) Validate() error {
	if q.TopN == 0 {
		return errs.InvalidArgument("top_n must be > 0")
	}
	return nil
}
