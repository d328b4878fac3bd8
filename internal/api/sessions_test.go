package api

import (
	"context"
	"errors"
	"testing"

	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
)

// flakyStorage fails PutDocument while failPut is set.
type flakyStorage struct {
	store.StorageClient
	failPut bool
}

func (f *flakyStorage) PutDocument(ctx context.Context, namespace, kind, id string, data []byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.StorageClient.PutDocument(ctx, namespace, kind, id, data)
}

func newSessionHandler(t *testing.T, docs store.StorageClient, size int) *Handler {
	t.Helper()
	return NewHandler(scoring.NewEngine(scoring.DefaultMetrics()...), scoring.Defaults(), docs, nil, NewSessionCache(size))
}

func addStudent(t *testing.T, h *Handler, b *gradebook.Book, s *session, name string) {
	t.Helper()
	err := h.mutate(context.Background(), store.KindGradebook, "a", s, func() error {
		_, err := b.AddStudent(gradebook.NewStudent{ShortName: name, FullName: name + " Silva", Age: 10, ClassYear: "5º ano"})
		return err
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
}

func storedStudents(t *testing.T, docs store.StorageClient) []string {
	t.Helper()
	b := gradebook.NewBook()
	if _, err := store.Load(context.Background(), docs, Namespace, store.KindGradebook, "a", b); err != nil {
		t.Fatalf("load stored book: %v", err)
	}
	var names []string
	for _, st := range b.Students() {
		names = append(names, st.ShortName)
	}
	return names
}

func TestMutateThroughEvictedSession(t *testing.T) {
	docs := store.NewLocalStorage(t.TempDir())
	h := newSessionHandler(t, docs, 1)
	ctx := context.Background()

	b1, s1, err := h.book(ctx, "a")
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	if _, _, err := h.book(ctx, "b"); err != nil { // evicts a
		t.Fatalf("load b: %v", err)
	}
	b2, s2, err := h.book(ctx, "a")
	if err != nil {
		t.Fatalf("reload a: %v", err)
	}
	if s1 == s2 {
		t.Fatal("expected a second session after eviction")
	}

	addStudent(t, h, b1, s1, "ana")
	addStudent(t, h, b2, s2, "bia")

	got := storedStudents(t, docs)
	if len(got) != 2 || got[0] != "ana" || got[1] != "bia" {
		t.Fatalf("stored students = %v, want [ana bia]", got)
	}

	// the evicted session catches up on its next write too
	addStudent(t, h, b1, s1, "caio")
	if got := storedStudents(t, docs); len(got) != 3 {
		t.Errorf("stored students = %v, want 3", got)
	}
	if _, err := b2.Student("caio"); err == nil {
		t.Error("cached session refreshed without a load")
	}
	b3, _, err := h.book(ctx, "a")
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	if len(b3.Students()) != 3 {
		t.Errorf("cached book has %d students after reload, want 3", len(b3.Students()))
	}
}

func TestMutateSaveFailureDropsChange(t *testing.T) {
	docs := &flakyStorage{StorageClient: store.NewLocalStorage(t.TempDir())}
	h := newSessionHandler(t, docs, 4)
	ctx := context.Background()

	b, s, err := h.book(ctx, "a")
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	addStudent(t, h, b, s, "ana")

	docs.failPut = true
	err = h.mutate(ctx, store.KindGradebook, "a", s, func() error {
		_, err := b.AddStudent(gradebook.NewStudent{ShortName: "bia", FullName: "Bia Souza", Age: 9, ClassYear: "4º ano"})
		return err
	})
	if err == nil {
		t.Fatal("expected save error")
	}
	docs.failPut = false

	// the unsaved student is gone once the held session is used again
	addStudent(t, h, b, s, "caio")
	got := storedStudents(t, docs)
	if len(got) != 2 || got[0] != "ana" || got[1] != "caio" {
		t.Errorf("stored students = %v, want [ana caio]", got)
	}
	if _, err := b.Student("bia"); err == nil {
		t.Error("unsaved student survived the reload")
	}
}
