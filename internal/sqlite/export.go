package sqlite

import (
	"time"

	"github.com/simnote-app/simnote/internal/exchange"
	"github.com/simnote-app/simnote/pkg/types"
)

// ExportJSON emits the bulk export document
// {version, exportedAt, entries, dailyMoods}.
func (b *Backend) ExportJSON() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	entries, err := b.loadEntriesLocked()
	if err != nil {
		return nil, err
	}
	moods, err := b.loadMoodsLocked()
	if err != nil {
		return nil, err
	}
	return exchange.Marshal(entries, moods)
}

// ImportJSON merges a bulk export document. Entry conflicts resolve
// last-write-wins by updatedAt; entries failing the test are silently
// skipped. Daily moods overwrite by date. A malformed payload imports zero
// records without error.
func (b *Backend) ImportJSON(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, types.ErrClosed
	}

	doc, ok := exchange.Parse(data)
	if !ok {
		b.logger.Warn("import payload malformed, nothing imported")
		return 0, nil
	}

	imported := 0
	for _, incoming := range doc.Entries {
		existing, err := b.entryLocked(incoming.ID)
		if err != nil && err != types.ErrNotFound {
			return imported, err
		}
		if !exchange.ShouldReplace(existing, incoming) {
			continue
		}
		if err := b.upsertLocked(incoming); err != nil {
			return imported, err
		}
		imported++
	}

	for _, m := range doc.DailyMoods {
		ts := m.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		_, err := b.db.Exec(
			`INSERT INTO daily_moods (date, mood, timestamp) VALUES (?, ?, ?)
			 ON CONFLICT(date) DO UPDATE SET mood = excluded.mood, timestamp = excluded.timestamp`,
			m.Date, m.Mood, ts.Format(time.RFC3339),
		)
		if err != nil {
			return imported, err
		}
	}

	if imported > 0 || len(doc.DailyMoods) > 0 {
		b.afterMutation()
	}
	return imported, nil
}
