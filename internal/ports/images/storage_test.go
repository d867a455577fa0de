package images

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	failOn  map[string]bool
}

func (f *fakeStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	return path, nil
}

func (f *fakeStorage) PublicURL(path string) string { return "https://cdn.test/" + path }

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	if f.failOn[path] {
		return errors.New("cdn: 500")
	}
	return nil
}

func TestDeleteAll_SettlesAllDespiteFailures(t *testing.T) {
	st := &fakeStorage{failOn: map[string]bool{"b": true}}

	errs := DeleteAll(context.Background(), st, []string{"a", "b", "c"})

	if len(st.deleted) != 3 {
		t.Fatalf("expected 3 delete attempts, got %d (%v)", len(st.deleted), st.deleted)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestDeleteAll_SkipsEmptyRefsAndNilStorage(t *testing.T) {
	if errs := DeleteAll(context.Background(), nil, []string{"a"}); errs != nil {
		t.Fatalf("nil storage: expected nil, got %v", errs)
	}

	st := &fakeStorage{}
	errs := DeleteAll(context.Background(), st, []string{"", "x"})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(st.deleted) != 1 || st.deleted[0] != "x" {
		t.Fatalf("expected only x deleted, got %v", st.deleted)
	}
}
