package models

import (
	"testing"

	"github.com/hyperjump/vectord/internal/errs"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *SearchRequest
		wantErr bool
	}{
		{"zero top_n", &SearchRequest{Text: "alpha", TopN: 0}, true},
		{"zero top_n empty text", &SearchRequest{}, true},
		{"valid", &SearchRequest{Text: "alpha", TopN: 1}, false},
		{"empty text is allowed", &SearchRequest{Text: "", TopN: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errs.StatusClass(err) != errs.StatusInvalidArgument {
				t.Errorf("status class = %s, want %s", errs.StatusClass(err), errs.StatusInvalidArgument)
			}
		})
	}
}
