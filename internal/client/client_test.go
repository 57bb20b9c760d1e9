package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/vectord/internal/config"
	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/models"
	"github.com/hyperjump/vectord/internal/server"
	"github.com/hyperjump/vectord/internal/service"
	"github.com/hyperjump/vectord/internal/storage"
)

func startServer(t *testing.T, dataset []string) *Client {
	t.Helper()
	dir := t.TempDir()
	var datasetPath string
	if dataset != nil {
		datasetPath = filepath.Join(dir, "dataset.json")
		data, _ := json.Marshal(dataset)
		if err := os.WriteFile(datasetPath, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.Open(storage.BackendSQLite, filepath.Join(dir, "vectors.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	svc := service.New(service.Config{ShardCount: 3, DatasetPath: datasetPath}, store)
	srv := server.NewServer(svc, &config.ServerConfig{}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL + "/")
}

func TestClient_RoundTrip(t *testing.T) {
	c := startServer(t, []string{"alpha", "beta", "gamma"})
	ctx := context.Background()

	initResp, err := c.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if initResp.Message != "loaded 3" {
		t.Errorf("Init message = %q", initResp.Message)
	}

	out, err := c.Search(ctx, &models.SearchRequest{Text: "gamma", TopN: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Results) != 1 || out.Results[0].Text != "gamma" {
		t.Errorf("Search results = %+v", out.Results)
	}

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Records != 3 || st.StoreBackend != storage.BackendSQLite {
		t.Errorf("Status = %+v", st)
	}
}

func TestClient_TypedErrors(t *testing.T) {
	c := startServer(t, nil)
	ctx := context.Background()

	_, err := c.Search(ctx, &models.SearchRequest{Text: "a", TopN: 0})
	if errs.StatusClass(err) != errs.StatusInvalidArgument {
		t.Errorf("zero top_n: got %v", err)
	}
	_, err = c.Search(ctx, &models.SearchRequest{Text: "a", TopN: 1})
	if !errors.Is(err, errs.ErrEmptyStore) {
		t.Errorf("uninitialized search: got %v", err)
	}
	if err == nil || err.Error() != "store not initialized" {
		t.Errorf("message = %v", err)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Status(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errs.StatusClass(err) != errs.StatusInternal {
		t.Errorf("class = %s", errs.StatusClass(err))
	}
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	if _, err := New(url).Init(context.Background()); err == nil {
		t.Error("expected connection error")
	}
}
