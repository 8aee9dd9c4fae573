// Package history keeps the bounded transcript history and the
// per-process session statistics.
package history

import (
	"strings"
	"time"

	"murmur/log"
	"murmur/store"
)

// MaxEntries bounds the history length.
const MaxEntries = 10

// Persistence is the slice of the store the history writes through.
type Persistence interface {
	SaveHistory([]store.Record) error
	LoadHistory() ([]store.Record, error)
}

type History struct {
	persistence Persistence
	records     []store.Record
	rehydrated  bool
}

// Load builds a History from persisted records.
func Load(p Persistence) *History {
	records, err := p.LoadHistory()
	if err != nil {
		log.Warnf("load history: %v", err)
	}
	if len(records) > MaxEntries {
		records = records[:MaxEntries]
	}
	return &History{persistence: p, records: records}
}

// Push prepends a record, evicts beyond MaxEntries, and persists the
// result. An empty list is never persisted so a cold start cannot wipe a
// previous run's saved history.
func (h *History) Push(r store.Record) {
	h.records = append([]store.Record{r}, h.records...)
	if len(h.records) > MaxEntries {
		h.records = h.records[:MaxEntries]
	}
	if len(h.records) == 0 {
		return
	}
	if err := h.persistence.SaveHistory(h.records); err != nil {
		log.Warnf("persist history: %v", err)
	}
}

// Records returns the history, most recent first.
func (h *History) Records() []store.Record {
	out := make([]store.Record, len(h.records))
	copy(out, h.records)
	return out
}

// Rehydrate returns the most recent persisted record exactly once, for
// surfacing as the current result at startup. Subsequent calls return
// false so re-renders cannot overwrite newer results.
func (h *History) Rehydrate() (store.Record, bool) {
	if h.rehydrated || len(h.records) == 0 {
		return store.Record{}, false
	}
	h.rehydrated = true
	return h.records[0], true
}

// Stats tracks process-lifetime session statistics. Not persisted;
// StreakDays is derived from history timestamps at startup.
type Stats struct {
	CompletedToday int
	WordCount      int
	StreakDays     int
}

// NewStats derives the day streak from existing history.
func NewStats(h *History) *Stats {
	return &Stats{StreakDays: streakDays(h.records, time.Now())}
}

// Complete records one successfully finished pipeline run.
func (s *Stats) Complete(finalText string) {
	s.CompletedToday++
	s.WordCount += len(strings.Fields(finalText))
	if s.StreakDays == 0 {
		s.StreakDays = 1
	}
}

func streakDays(records []store.Record, now time.Time) int {
	days := map[string]bool{}
	for _, r := range records {
		days[r.Timestamp.Format("2006-01-02")] = true
	}
	streak := 0
	for d := now; days[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
