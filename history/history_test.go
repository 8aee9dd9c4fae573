package history

import (
	"fmt"
	"testing"
	"time"

	"murmur/store"
)

type memPersistence struct {
	saved     []store.Record
	saveCalls int
}

func (m *memPersistence) SaveHistory(records []store.Record) error {
	m.saved = append([]store.Record{}, records...)
	m.saveCalls++
	return nil
}

func (m *memPersistence) LoadHistory() ([]store.Record, error) {
	return m.saved, nil
}

func TestPushPrependsAndEvicts(t *testing.T) {
	p := &memPersistence{}
	h := Load(p)

	for i := 1; i <= 11; i++ {
		h.Push(store.Record{RawText: fmt.Sprintf("entry %d", i), Timestamp: time.Now()})
	}

	records := h.Records()
	if len(records) != MaxEntries {
		t.Fatalf("len = %d, want %d", len(records), MaxEntries)
	}
	if records[0].RawText != "entry 11" {
		t.Errorf("front = %q, want entry 11", records[0].RawText)
	}
	for _, r := range records {
		if r.RawText == "entry 1" {
			t.Error("oldest entry not evicted")
		}
	}
	if len(p.saved) != MaxEntries {
		t.Errorf("persisted %d records, want %d", len(p.saved), MaxEntries)
	}
}

func TestRehydrateOnce(t *testing.T) {
	p := &memPersistence{saved: []store.Record{
		{RawText: "latest", Timestamp: time.Now()},
		{RawText: "older", Timestamp: time.Now().Add(-time.Hour)},
	}}
	h := Load(p)

	r, ok := h.Rehydrate()
	if !ok || r.RawText != "latest" {
		t.Fatalf("first rehydrate = (%+v, %v), want latest", r, ok)
	}
	if _, ok := h.Rehydrate(); ok {
		t.Error("second rehydrate should return false")
	}
}

func TestRehydrateEmptyHistory(t *testing.T) {
	h := Load(&memPersistence{})
	if _, ok := h.Rehydrate(); ok {
		t.Error("rehydrate on empty history should return false")
	}
}

func TestLoadTruncatesOversizedHistory(t *testing.T) {
	p := &memPersistence{}
	for i := 0; i < 15; i++ {
		p.saved = append(p.saved, store.Record{RawText: fmt.Sprintf("r%d", i)})
	}
	h := Load(p)
	if len(h.Records()) != MaxEntries {
		t.Errorf("len = %d, want %d", len(h.Records()), MaxEntries)
	}
}

func TestStatsComplete(t *testing.T) {
	s := &Stats{}
	s.Complete("buy milk and eggs")
	s.Complete("hello world")

	if s.CompletedToday != 2 {
		t.Errorf("CompletedToday = %d, want 2", s.CompletedToday)
	}
	if s.WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", s.WordCount)
	}
	if s.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1", s.StreakDays)
	}
}

func TestStreakFromHistory(t *testing.T) {
	now := time.Now()
	records := []store.Record{
		{Timestamp: now},
		{Timestamp: now.AddDate(0, 0, -1)},
		{Timestamp: now.AddDate(0, 0, -2)},
		{Timestamp: now.AddDate(0, 0, -5)}, // gap
	}
	if got := streakDays(records, now); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
	if got := streakDays(nil, now); got != 0 {
		t.Errorf("empty streak = %d, want 0", got)
	}
}
