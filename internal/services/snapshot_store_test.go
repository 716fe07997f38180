package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/database"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "catalog.db"), "silent")
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	return db
}

// stubLoader returns its queued results in order
type stubLoader struct {
	results []*Datasets
	errs    []error
	calls   int
}

func (l *stubLoader) Load(ctx context.Context) (*Datasets, error) {
	i := l.calls
	l.calls++
	return l.results[i], l.errs[i]
}

func TestSnapshotStoreStartsEmpty(t *testing.T) {
	store := NewSnapshotStore(&stubLoader{}, catalog.NewPartitioner(nil), nil)
	snap := store.Current()
	if snap == nil || len(snap.Cards) != 0 || len(snap.Categories) != 0 {
		t.Fatalf("initial snapshot = %+v, want empty", snap)
	}
	if status := store.Status(); status.LoadedAt != nil || status.Last != nil {
		t.Errorf("initial status = %+v, want no load and no history", status)
	}
}

func TestSnapshotStoreRefreshIsAllOrNothing(t *testing.T) {
	first := &Datasets{
		Cards: []models.Card{{Name: "Pikachu", Type: "Pokemon", Quantity: "1"}},
		Slabs: []models.Slab{{Variant: models.SlabVariantSimple, Name: "Mew"}},
	}
	loader := &stubLoader{
		results: []*Datasets{first, nil},
		errs:    []error{nil, errors.New("slabs: unexpected status 500")},
	}
	store := NewSnapshotStore(loader, catalog.NewPartitioner(nil), NewRefreshHistory(openTestDB(t)))

	if err := store.Refresh(context.Background(), TriggerStartup); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
	loaded := store.Current()
	if len(loaded.Cards) != 1 || len(loaded.Slabs) != 1 {
		t.Fatalf("after refresh got %d cards, %d slabs", len(loaded.Cards), len(loaded.Slabs))
	}

	if err := store.Refresh(context.Background(), TriggerManual); err == nil {
		t.Fatal("second Refresh() succeeded, want error")
	}
	if store.Current() != loaded {
		t.Error("failed refresh replaced the snapshot")
	}

	status := store.Status()
	if status.LoadedAt == nil || !status.LoadedAt.Equal(loaded.LoadedAt) {
		t.Errorf("status LoadedAt = %v, want %v", status.LoadedAt, loaded.LoadedAt)
	}
	if status.Last == nil || status.Last.Success || status.Last.Trigger != TriggerManual {
		t.Errorf("last record = %+v, want the failed manual refresh", status.Last)
	}

	history, err := store.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 || !history[1].Success || history[1].Cards != 1 || history[1].Categories != 1 {
		t.Errorf("history = %+v", history)
	}
}

func TestSnapshotStoreWithoutHistory(t *testing.T) {
	loader := &stubLoader{results: []*Datasets{{}}, errs: []error{nil}}
	store := NewSnapshotStore(loader, catalog.NewPartitioner(nil), nil)
	if err := store.Refresh(context.Background(), TriggerManual); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	history, err := store.History(5)
	if err != nil || len(history) != 0 {
		t.Errorf("History() = %v, %v; want empty", history, err)
	}
}

// flakyLoader fails its first load and signals every successful one
type flakyLoader struct {
	mu     sync.Mutex
	calls  int
	loaded chan struct{}
}

func (l *flakyLoader) Load(ctx context.Context) (*Datasets, error) {
	l.mu.Lock()
	l.calls++
	n := l.calls
	l.mu.Unlock()

	if n == 1 {
		return nil, errors.New("cards: unexpected status 503")
	}
	select {
	case l.loaded <- struct{}{}:
	default:
	}
	return &Datasets{Cards: []models.Card{{Name: "Pikachu", Type: "Pokemon", Quantity: "1"}}}, nil
}

func TestSnapshotStoreStartRecoversAfterFailedTick(t *testing.T) {
	loader := &flakyLoader{loaded: make(chan struct{}, 1)}
	store := NewSnapshotStore(loader, catalog.NewPartitioner(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-loader.loaded:
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("worker never refreshed after the failed tick")
	}
	cancel()
	<-done

	if got := len(store.Current().Cards); got != 1 {
		t.Errorf("Current() has %d cards, want 1", got)
	}
}
