package storage

import (
	"encoding/json"
	"time"

	"github.com/simnote-app/simnote/pkg/types"
)

// streakWindowDays bounds how far back streak derivation looks.
const streakWindowDays = 365

// isoDate is the calendar-day key format used throughout.
const isoDate = "2006-01-02"

// calcStreaks derives the consecutive-day figures from the entry set.
// A day counts when at least one entry was created on it (UTC). The current
// streak is the maximal run of consecutive days ending at today or
// yesterday: today's absence is tolerated so a streak is not reset before
// the user has had a chance to write today. The longest streak is the
// maximal run anywhere in the window.
func calcStreaks(entries []*types.Entry, today time.Time) types.Streaks {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.CreatedAt.UTC().Format(isoDate)] = true
	}

	today = today.UTC().Truncate(24 * time.Hour)

	var s types.Streaks

	// Current streak: anchor at today, or yesterday when today is absent.
	anchor := today
	if !days[anchor.Format(isoDate)] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for i := 0; i < streakWindowDays; i++ {
		day := anchor.AddDate(0, 0, -i)
		if !days[day.Format(isoDate)] {
			break
		}
		s.Current++
	}

	// Longest streak within the window.
	run := 0
	for i := streakWindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		if days[day.Format(isoDate)] {
			run++
			if run > s.Longest {
				s.Longest = run
			}
		} else {
			run = 0
		}
	}
	return s
}

// refreshStreaks recomputes the streak figures and caches them in metadata.
// Called after every mutating operation; statistics consumers read the
// cache instead of recomputing. Caller holds j.mu.
func (j *Journal) refreshStreaks() {
	entries, err := j.primary.Entries()
	if err != nil {
		j.logger.Warn("streak refresh skipped", "error", err)
		return
	}
	streaks := calcStreaks(entries, time.Now())
	data, err := json.Marshal(streaks)
	if err != nil {
		j.logger.Warn("streak refresh skipped", "error", err)
		return
	}
	if err := j.primary.SetMeta(types.MetaStreaks, data); err != nil {
		j.logger.Warn("caching streaks failed", "error", err)
	}
}

// cachedStreaks reads the streak cache, recomputing and caching when it is
// absent or unreadable.
func (j *Journal) cachedStreaks(entries []*types.Entry) types.Streaks {
	raw, err := j.primary.GetMeta(types.MetaStreaks)
	if err == nil {
		var s types.Streaks
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}
	streaks := calcStreaks(entries, time.Now())
	if data, err := json.Marshal(streaks); err == nil {
		if err := j.primary.SetMeta(types.MetaStreaks, data); err != nil {
			j.logger.Warn("caching streaks failed", "error", err)
		}
	}
	return streaks
}

// Stats aggregates entry statistics plus the cached streak figures.
func (j *Journal) Stats() types.Stats {
	entries := j.Entries()

	stats := types.Stats{
		TotalEntries: len(entries),
		MoodCounts:   make(map[string]int),
	}
	for _, e := range entries {
		stats.TotalWords += e.WordCount
		if e.Favorite {
			stats.FavoriteCount++
		}
		if e.Mood != "" {
			stats.MoodCounts[e.Mood]++
		}
	}
	if stats.TotalEntries > 0 {
		stats.AvgWords = stats.TotalWords / stats.TotalEntries
	}

	streaks := j.cachedStreaks(entries)
	stats.CurrentStreak = streaks.Current
	stats.LongestStreak = streaks.Longest
	return stats
}
