// Package cli formats vectord responses for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hyperjump/vectord/internal/models"
	"github.com/hyperjump/vectord/pkg/utils"
)

// OutputFormat selects how responses are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one result per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts text, compact or json.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%.4f\t%s\n", r.Score, utils.CollapseSpace(r.Text))
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results\n\n", len(response.Results))
	for i, r := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | Dims: %d\n", i+1, r.Score, len(r.Embedding))
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(r.Text, 200))
	}
}

// WriteStatus writes a status response as text or JSON.
func WriteStatus(w io.Writer, status *models.StatusResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "records:            %d   # records loaded in memory\n", status.Records)
	fmt.Fprintf(w, "shards:             %d   # %v\n", len(status.ShardSizes), status.ShardSizes)
	fmt.Fprintf(w, "persisted:          %d   # records in the persistent store\n", status.Persisted)
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d\n", *status.DiskUsageBytes)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# configuration")
	fmt.Fprintf(w, "store_backend:      %s\n", status.StoreBackend)
	if status.StorePath != "" {
		fmt.Fprintf(w, "store_path:         %s\n", status.StorePath)
	}
	if status.DatasetPath != "" {
		fmt.Fprintf(w, "dataset_path:       %s\n", status.DatasetPath)
	}
	if len(status.Metrics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# metrics")
		names := make([]string, 0, len(status.Metrics))
		for name := range status.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "%-34s %g\n", name, status.Metrics[name])
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
