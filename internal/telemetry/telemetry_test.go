package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"serqo/internal/search"
)

type fakeDurableLog struct {
	inserts []QueryRecord
	recent  []Entry
	popular []Entry
	err     error
}

func (f *fakeDurableLog) Insert(ctx context.Context, rec QueryRecord) error {
	if f.err != nil {
		return f.err
	}
	f.inserts = append(f.inserts, rec)
	return nil
}

func (f *fakeDurableLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return f.recent, f.err
}

func (f *fakeDurableLog) Popular(ctx context.Context, limit int) ([]Entry, error) {
	return f.popular, f.err
}

type fakeAccelerator struct {
	pushes  []string
	recent  []Entry
	popular []Entry
	err     error
}

func (f *fakeAccelerator) Push(ctx context.Context, query string) error {
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, query)
	return nil
}

func (f *fakeAccelerator) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return f.recent, f.err
}

func (f *fakeAccelerator) Popular(ctx context.Context, limit int) ([]Entry, error) {
	return f.popular, f.err
}

func testStore(log DurableLog, accel Accelerator) *Store {
	return NewStore(log, accel, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecordWritesDurableLog(t *testing.T) {
	log := &fakeDurableLog{}
	accel := &fakeAccelerator{}
	store := testStore(log, accel)

	store.Record(context.Background(), "search_1", "cats", search.FilterAll, 5, 120)

	if len(log.inserts) != 1 {
		t.Fatalf("durable log received %d rows, want 1", len(log.inserts))
	}
	rec := log.inserts[0]
	if rec.SearchID != "search_1" || rec.Query != "cats" || rec.Filter != "all" || rec.ResultsCount != 5 || rec.SearchTime != 120 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(accel.pushes) != 1 || accel.pushes[0] != "cats" {
		t.Errorf("accelerator pushes = %v", accel.pushes)
	}
}

func TestRecordSurvivesAcceleratorFailure(t *testing.T) {
	log := &fakeDurableLog{}
	accel := &fakeAccelerator{err: errors.New("connection refused")}
	store := testStore(log, accel)

	store.Record(context.Background(), "search_1", "cats", search.FilterAll, 5, 120)

	if len(log.inserts) != 1 {
		t.Fatalf("durable log received %d rows despite accelerator failure, want 1", len(log.inserts))
	}
}

func TestRecordSurvivesDurableLogFailure(t *testing.T) {
	log := &fakeDurableLog{err: errors.New("database down")}
	accel := &fakeAccelerator{}
	store := testStore(log, accel)

	// Must not panic or propagate; the accelerator still gets the query.
	store.Record(context.Background(), "search_1", "cats", search.FilterAll, 5, 120)

	if len(accel.pushes) != 1 {
		t.Errorf("accelerator pushes = %v, want the query recorded", accel.pushes)
	}
}

func TestRecordPushesOncePerCall(t *testing.T) {
	log := &fakeDurableLog{}
	accel := &fakeAccelerator{}
	store := testStore(log, accel)

	// Popularity counts grow by exactly one per served request, repeats included.
	for i := 0; i < 3; i++ {
		store.Record(context.Background(), fmt.Sprintf("search_%d", i), "cats", search.FilterAll, 5, 120)
	}

	if len(accel.pushes) != 3 {
		t.Errorf("accelerator pushes = %d, want 3", len(accel.pushes))
	}
	if len(log.inserts) != 3 {
		t.Errorf("durable rows = %d, want 3", len(log.inserts))
	}
}

func TestReadsPreferAccelerator(t *testing.T) {
	log := &fakeDurableLog{
		recent:  []Entry{{ID: "db1", Query: "from-db"}},
		popular: []Entry{{ID: "db2", Query: "from-db"}},
	}
	accel := &fakeAccelerator{
		recent:  []Entry{{ID: "r1", Query: "from-redis"}},
		popular: []Entry{{ID: "p1", Query: "from-redis"}},
	}
	store := testStore(log, accel)

	recent, err := store.RecentSearches(context.Background(), 10)
	if err != nil || len(recent) != 1 || recent[0].Query != "from-redis" {
		t.Errorf("RecentSearches = %v, %v; want accelerator view", recent, err)
	}

	popular, err := store.PopularSearches(context.Background(), 10)
	if err != nil || len(popular) != 1 || popular[0].Query != "from-redis" {
		t.Errorf("PopularSearches = %v, %v; want accelerator view", popular, err)
	}
}

func TestReadsFallBackWhenAcceleratorEmpty(t *testing.T) {
	log := &fakeDurableLog{recent: []Entry{{ID: "db1", Query: "from-db"}}}
	store := testStore(log, &fakeAccelerator{})

	recent, err := store.RecentSearches(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Query != "from-db" {
		t.Errorf("RecentSearches = %v, want durable-log view", recent)
	}
}

func TestReadsFallBackWhenAcceleratorErrors(t *testing.T) {
	log := &fakeDurableLog{popular: []Entry{{ID: "db1", Query: "from-db"}}}
	store := testStore(log, &fakeAccelerator{err: errors.New("connection refused")})

	popular, err := store.PopularSearches(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(popular) != 1 || popular[0].Query != "from-db" {
		t.Errorf("PopularSearches = %v, want durable-log view", popular)
	}
}

func TestNoopAcceleratorBehavesLikeEmpty(t *testing.T) {
	log := &fakeDurableLog{recent: []Entry{{ID: "db1", Query: "from-db"}}}
	store := testStore(log, NewNoopAccelerator())

	store.Record(context.Background(), "search_1", "cats", search.FilterAll, 2, 10)
	if len(log.inserts) != 1 {
		t.Fatalf("durable log received %d rows, want 1", len(log.inserts))
	}

	recent, err := store.RecentSearches(context.Background(), 10)
	if err != nil || len(recent) != 1 {
		t.Errorf("RecentSearches = %v, %v; want durable-log view", recent, err)
	}
}
