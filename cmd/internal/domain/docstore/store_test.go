package docstore

import (
	"context"
	"errors"
	"lifemate/cmd/internal/domain/db"
	"lifemate/cmd/internal/domain/entity"
	"sync"
	"testing"
	"time"
)

func setupStore(t *testing.T) (*Store, *Hub) {
	t.Helper()
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	hub := NewHub()
	return New(gdb, hub, nil), hub
}

// recorder collects snapshots handed to a subscription callback.
type recorder struct {
	mu        sync.Mutex
	snapshots [][]*entity.Document
	updates   chan int
}

func newRecorder() *recorder {
	return &recorder{updates: make(chan int, 64)}
}

func (r *recorder) fn(docs []*entity.Document) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, docs)
	r.mu.Unlock()
	r.updates <- len(docs)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func waitForLen(t *testing.T, r *recorder, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-r.updates:
			if n == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a snapshot with %d documents", want)
		}
	}
}

func TestCreateFetchDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, entity.CollectionGrocery, "user-1", map[string]any{"name": "Milch"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, entity.CollectionGrocery, "user-2", map[string]any{"name": "Brot"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	docs, err := store.Fetch(ctx, entity.CollectionGrocery, Filter{UID: "user-1"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != id || docs[0].String("name") != "Milch" {
		t.Fatalf("unexpected documents: %+v", docs)
	}

	if err := store.Delete(ctx, entity.CollectionGrocery, "user-1", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, entity.CollectionGrocery, "user-1", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, entity.CollectionFridge, "owner", map[string]any{"name": "Eier"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, entity.CollectionFridge, "intruder", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign uid, got %v", err)
	}
	if _, err := store.Get(ctx, entity.CollectionFridge, "owner", id); err != nil {
		t.Errorf("document should survive a foreign delete: %v", err)
	}
	if _, err := store.Get(ctx, entity.CollectionFridge, "intruder", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign uid must not see the document, got %v", err)
	}
}

func TestFetchRequiresOwner(t *testing.T) {
	store, _ := setupStore(t)
	if _, err := store.Fetch(context.Background(), entity.CollectionFridge, Filter{}); !errors.Is(err, ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner, got %v", err)
	}
	if _, err := store.Create(context.Background(), entity.CollectionFridge, "", nil); !errors.Is(err, ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner, got %v", err)
	}
}

func TestFetchFieldEquality(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	for _, text := range []string{"❗ Ablaufdatum: Milch", "❗ Ablaufdatum: Milchreis", "❗ Ablaufdatum: Milch"} {
		if _, err := store.Create(ctx, entity.CollectionAppointments, "u", map[string]any{"date": "2025-05-01", "text": text}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	docs, err := store.Fetch(ctx, entity.CollectionAppointments, Filter{
		UID:    "u",
		Equals: map[string]any{"text": "❗ Ablaufdatum: Milch"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 exact matches, got %d", len(docs))
	}
}

func TestSubscribeDeliversInitialAndChanges(t *testing.T) {
	store, hub := setupStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, entity.CollectionGrocery, "u", map[string]any{"name": "Milch"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := newRecorder()
	sub, err := store.Subscribe(ctx, entity.CollectionGrocery, Filter{UID: "u"}, rec.fn)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	if rec.count() != 1 {
		t.Fatalf("expected initial snapshot before Subscribe returns, got %d", rec.count())
	}
	if hub.Len() != 1 {
		t.Errorf("expected 1 registered subscription, got %d", hub.Len())
	}

	id, err := store.Create(ctx, entity.CollectionGrocery, "u", map[string]any{"name": "Brot"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	<-rec.updates // initial
	waitForLen(t, rec, 2)

	if err := store.Delete(ctx, entity.CollectionGrocery, "u", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	waitForLen(t, rec, 1)
}

func TestSubscribeIgnoresOtherOwners(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	rec := newRecorder()
	sub, err := store.Subscribe(ctx, entity.CollectionGrocery, Filter{UID: "u"}, rec.fn)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()
	<-rec.updates

	if _, err := store.Create(ctx, entity.CollectionGrocery, "someone-else", map[string]any{"name": "Brot"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, entity.CollectionFridge, "u", map[string]any{"name": "Brot"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	select {
	case n := <-rec.updates:
		t.Fatalf("unexpected snapshot with %d documents", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseReleasesExactlyOnce(t *testing.T) {
	store, hub := setupStore(t)
	ctx := context.Background()

	rec := newRecorder()
	sub, err := store.Subscribe(ctx, entity.CollectionGrocery, Filter{UID: "u"}, rec.fn)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sub.Close()
	sub.Close()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after Close")
	}
	if hub.Len() != 0 {
		t.Errorf("expected no dangling subscriptions, got %d", hub.Len())
	}

	before := rec.count()
	if _, err := store.Create(ctx, entity.CollectionGrocery, "u", map[string]any{"name": "Brot"}); err != nil {
		t.Fatalf("write after close failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if rec.count() != before {
		t.Errorf("callback ran after Close")
	}
}

func TestSubscriptionStopsWithContext(t *testing.T) {
	store, hub := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := store.Subscribe(ctx, entity.CollectionGrocery, Filter{UID: "u"}, func([]*entity.Document) {})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
	if hub.Len() != 0 {
		t.Errorf("expected subscription to unregister, got %d", hub.Len())
	}
}
