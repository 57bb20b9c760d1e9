package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantClass  string
		wantStatus int
	}{
		{"config", Config("store path must not be empty"), StatusInvalidArgument, http.StatusBadRequest},
		{"invalid argument", InvalidArgument("top_n must be > 0"), StatusInvalidArgument, http.StatusBadRequest},
		{"empty store", EmptyStore("store not initialized"), StatusFailedPrecondition, http.StatusPreconditionFailed},
		{"io", Io("read dataset", fs.ErrPermission), StatusInternal, http.StatusInternalServerError},
		{"serialization", Serialization("decode record", errors.New("bad json")), StatusInternal, http.StatusInternalServerError},
		{"storage", Storage("open database", errors.New("locked")), StatusInternal, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), StatusInternal, http.StatusInternalServerError},
		{"wrapped empty store", fmt.Errorf("ensure loaded: %w", ErrEmptyStore), StatusFailedPrecondition, http.StatusPreconditionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusClass(tt.err); got != tt.wantClass {
				t.Errorf("StatusClass() = %s, want %s", got, tt.wantClass)
			}
			if got := HTTPStatus(tt.err); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestError_IsEmptyStore(t *testing.T) {
	err := fmt.Errorf("search: %w", EmptyStore("vector store is empty"))
	if !errors.Is(err, ErrEmptyStore) {
		t.Error("errors.Is should match ErrEmptyStore for any empty-store error")
	}
	if errors.Is(Storage("x", errors.New("y")), ErrEmptyStore) {
		t.Error("storage error must not match ErrEmptyStore")
	}
}

func TestError_Unwrap(t *testing.T) {
	err := Io("read dataset", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Io error should unwrap to its cause")
	}
	if err.Error() != "read dataset: "+fs.ErrNotExist.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if KindOf(err) != KindIo {
		t.Errorf("KindOf() = %v, want io", KindOf(err))
	}
}

func TestFromStatusClass(t *testing.T) {
	for _, class := range []string{StatusInvalidArgument, StatusFailedPrecondition, StatusInternal, "unknown"} {
		err := FromStatusClass(class, "msg")
		want := class
		if class == "unknown" {
			want = StatusInternal
		}
		if got := StatusClass(err); got != want {
			t.Errorf("StatusClass(FromStatusClass(%q)) = %q, want %q", class, got, want)
		}
		if err.Error() != "msg" {
			t.Errorf("Error() = %q", err.Error())
		}
	}
	if !errors.Is(FromStatusClass(StatusFailedPrecondition, "store not initialized"), ErrEmptyStore) {
		t.Error("failed_precondition should match ErrEmptyStore")
	}
}
