package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/vectord/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{Results: []models.SearchResult{
		{Text: "alpha", Score: 1, Embedding: []float32{0.1, 0.2}},
		{Text: "multi\nline  text", Score: 0.5, Embedding: []float32{0.3}},
	}}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Results) != 2 || decoded.Results[0].Text != "alpha" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 2 results", "Rank: 1 | Score: 1.0000 | Dims: 2", "alpha", "Rank: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	want := "1.0000\talpha\n0.5000\tmulti line text\n"
	if buf.String() != want {
		t.Errorf("compact output = %q, want %q", buf.String(), want)
	}
}

func TestWriteSearchResults_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, &models.SearchResponse{}, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Found 0 results") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "compact", "json"} {
		if f, err := ParseOutputFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for yaml")
	}
}

func TestWriteStatus(t *testing.T) {
	disk := int64(4096)
	st := &models.StatusResponse{
		Records:        3,
		ShardSizes:     []int{2, 1},
		Persisted:      3,
		StoreBackend:   "bolt",
		StorePath:      "/tmp/vectors.db",
		DiskUsageBytes: &disk,
		Metrics:        map[string]float64{"vector_search_total": 2, "vector_init_total": 1},
	}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, st, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"records:            3", "[2 1]", "store_backend:      bolt", "disk_usage_bytes:   4096", "vector_search_total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "vector_init_total") > strings.Index(out, "vector_search_total") {
		t.Error("metrics should be sorted by name")
	}

	buf.Reset()
	if err := WriteStatus(&buf, st, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.StatusResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Records != 3 || *decoded.DiskUsageBytes != 4096 {
		t.Errorf("decoded = %+v", decoded)
	}
}
