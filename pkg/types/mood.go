package types

import "time"

// DailyMood is a standalone one-per-calendar-day mood sample, independent of
// any entry. Setting the mood twice on the same day overwrites the earlier
// sample.
type DailyMood struct {
	Date      string    `json:"date"` // ISO date, YYYY-MM-DD
	Mood      string    `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates entry-set statistics plus the cached streak figures.
type Stats struct {
	TotalEntries  int            `json:"totalEntries"`
	TotalWords    int            `json:"totalWords"`
	AvgWords      int            `json:"avgWords"`
	FavoriteCount int            `json:"favoriteCount"`
	MoodCounts    map[string]int `json:"moodCounts"`
	CurrentStreak int            `json:"currentStreak"`
	LongestStreak int            `json:"longestStreak"`
}

// Streaks holds the cached consecutive-day figures stored under the
// MetaStreaks key after every mutation.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}
