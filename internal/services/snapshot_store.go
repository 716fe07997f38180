package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/metrics"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

// Refresh triggers
const (
	TriggerStartup   = "startup"
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// Loader produces a complete set of datasets
type Loader interface {
	Load(ctx context.Context) (*Datasets, error)
}

// SnapshotStore holds the current catalog snapshot and replaces it on refresh.
// Readers always see one complete snapshot; a failed refresh keeps the old one.
type SnapshotStore struct {
	loader      Loader
	partitioner *catalog.Partitioner
	history     *RefreshHistory

	refreshMu sync.Mutex
	current   atomic.Pointer[catalog.Snapshot]
}

// NewSnapshotStore starts out with an empty snapshot until the first refresh
func NewSnapshotStore(loader Loader, partitioner *catalog.Partitioner, history *RefreshHistory) *SnapshotStore {
	s := &SnapshotStore{
		loader:      loader,
		partitioner: partitioner,
		history:     history,
	}
	s.current.Store(catalog.NewSnapshot(nil, nil, nil, partitioner, time.Time{}))
	return s
}

// Current returns the snapshot in use
func (s *SnapshotStore) Current() *catalog.Snapshot {
	return s.current.Load()
}

// Refresh reloads every dataset and swaps the snapshot only if all of them loaded.
// Concurrent calls are serialized.
func (s *SnapshotStore) Refresh(ctx context.Context, trigger string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	rec := &models.RefreshRecord{StartedAt: start, Trigger: trigger}

	data, err := s.loader.Load(ctx)
	rec.DurationMS = time.Since(start).Milliseconds()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		rec.Error = err.Error()
		s.record(rec)
		metrics.RefreshTotal.WithLabelValues(trigger, "failed").Inc()
		log.Printf("Snapshot store: %s refresh failed, keeping previous snapshot: %v", trigger, err)
		return fmt.Errorf("refresh datasets: %w", err)
	}

	snap := catalog.NewSnapshot(data.Cards, data.Slabs, data.ValueLog, s.partitioner, time.Now())
	s.current.Store(snap)

	rec.Success = true
	rec.Cards = len(snap.Cards)
	rec.Slabs = len(snap.Slabs)
	rec.LogEntries = len(snap.ValueLog)
	rec.Categories = len(snap.Categories)
	s.record(rec)

	metrics.RefreshTotal.WithLabelValues(trigger, "success").Inc()
	metrics.LastRefreshTimestamp.Set(float64(snap.LoadedAt.Unix()))
	metrics.DatasetRows.WithLabelValues("cards").Set(float64(rec.Cards))
	metrics.DatasetRows.WithLabelValues("slabs").Set(float64(rec.Slabs))
	metrics.DatasetRows.WithLabelValues("value_log").Set(float64(rec.LogEntries))
	metrics.CategoriesTotal.Set(float64(rec.Categories))
	metrics.DroppedLogRows.Add(float64(data.DroppedLogRows))

	log.Printf("Snapshot store: %s refresh loaded %d cards, %d slabs, %d log entries in %dms",
		trigger, rec.Cards, rec.Slabs, rec.LogEntries, rec.DurationMS)
	if data.DroppedLogRows > 0 {
		log.Printf("Snapshot store: dropped %d value log rows with unparsable times", data.DroppedLogRows)
	}
	return nil
}

func (s *SnapshotStore) record(rec *models.RefreshRecord) {
	if err := s.history.Record(rec); err != nil {
		log.Printf("Snapshot store: failed to record refresh: %v", err)
	}
}

// Status describes the snapshot in use and the last refresh attempt
func (s *SnapshotStore) Status() models.RefreshStatus {
	snap := s.Current()
	status := models.RefreshStatus{
		Cards:      len(snap.Cards),
		Slabs:      len(snap.Slabs),
		LogEntries: len(snap.ValueLog),
		Last:       s.history.Latest(),
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt
		status.LoadedAt = &loadedAt
	}
	return status
}

// History returns recent refresh attempts, newest first
func (s *SnapshotStore) History(limit int) ([]models.RefreshRecord, error) {
	return s.history.Recent(limit)
}

// Start refreshes on every tick of interval until ctx is done
func (s *SnapshotStore) Start(ctx context.Context, interval time.Duration) {
	log.Printf("Snapshot store: refreshing datasets every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot store: refresh worker stopping...")
			return
		case <-ticker.C:
			if err := s.Refresh(ctx, TriggerScheduled); err != nil {
				log.Printf("Snapshot store: scheduled refresh failed: %v", err)
			}
		}
	}
}
