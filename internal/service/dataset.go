package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hyperjump/vectord/internal/errs"
)

// ReadDataset parses the JSON array of strings at path.
//
// A missing file is returned as an Io error wrapping fs.ErrNotExist so callers
// can tell it apart from other read failures. A literal [] is an EmptyStore
// error; a top-level null or a null element is a Serialization error.
func ReadDataset(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Io("failed to read dataset", err)
	}
	var entries []*string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errs.Serialization("failed to parse dataset", err)
	}
	if entries == nil {
		return nil, errs.Serialization("failed to parse dataset: expected an array of strings, got null", nil)
	}
	if len(entries) == 0 {
		return nil, errs.EmptyStore("vector store dataset is empty")
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		if e == nil {
			return nil, errs.Serialization(fmt.Sprintf("failed to parse dataset: entry %d is null", i), nil)
		}
		texts[i] = *e
	}
	return texts, nil
}
