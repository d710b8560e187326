// Stats command prints aggregate journaling statistics.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journaling statistics and streaks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		stats := j.Stats()
		if flagJSON {
			return printJSON(stats)
		}

		header := color.New(color.FgCyan, color.Bold)
		header.Println("Journal")
		fmt.Printf("  entries:    %d\n", stats.TotalEntries)
		fmt.Printf("  words:      %d\n", stats.TotalWords)
		fmt.Printf("  avg words:  %d\n", stats.AvgWords)
		fmt.Printf("  favorites:  %d\n", stats.FavoriteCount)

		header.Println("Streaks")
		fmt.Printf("  current:    %d\n", stats.CurrentStreak)
		fmt.Printf("  longest:    %d\n", stats.LongestStreak)

		if len(stats.MoodCounts) > 0 {
			header.Println("Moods")
			moods := make([]string, 0, len(stats.MoodCounts))
			for m := range stats.MoodCounts {
				moods = append(moods, m)
			}
			sort.Strings(moods)
			for _, m := range moods {
				fmt.Printf("  %-10s %d\n", m, stats.MoodCounts[m])
			}
		}
		return nil
	},
}
