package service

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/vectord/internal/errs"
)

func TestReadDataset(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	got, err := ReadDataset(write("ok.json", `["alpha", "beta", "日本"]`))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"alpha", "beta", "日本"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadDataset = %v, want %v", got, want)
	}

	tests := []struct {
		name string
		path string
		kind errs.Kind
	}{
		{"empty array", write("empty.json", `[]`), errs.KindEmptyStore},
		{"null", write("null.json", `null`), errs.KindSerialization},
		{"null element", write("null-elem.json", `["alpha", null]`), errs.KindSerialization},
		{"object", write("object.json", `{"a": 1}`), errs.KindSerialization},
		{"numbers", write("numbers.json", `[1, 2]`), errs.KindSerialization},
		{"missing", filepath.Join(dir, "missing.json"), errs.KindIo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(tt.path)
			if got := errs.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v (err: %v)", got, tt.kind, err)
			}
		})
	}

	_, err = ReadDataset(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("missing dataset should wrap fs.ErrNotExist")
	}
}
