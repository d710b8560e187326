// Mood commands record and list standalone daily mood samples.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var moodDate string

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Record and list daily moods",
}

var moodSetCmd = &cobra.Command{
	Use:   "set <mood>",
	Short: "Record today's mood",
	Long: `Set records a standalone mood sample for one calendar day, independent
of any entry. Setting the mood twice on the same day overwrites the
earlier sample.

Example:
  simnote mood set happy
  simnote mood set calm --date 2025-03-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "mood set:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		if moodDate != "" {
			if _, parseErr := time.Parse("2006-01-02", moodDate); parseErr != nil {
				fmt.Fprintf(os.Stderr, "invalid date %q (expected YYYY-MM-DD)\n", moodDate)
				os.Exit(exitUserError)
			}
			err = j.SetDailyMoodOn(moodDate, args[0])
		} else {
			err = j.SetDailyMood(args[0])
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "mood set:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Mood recorded")
		return nil
	},
}

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List retained mood samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "mood list:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		moods := j.DailyMoods()
		if flagJSON {
			return printJSON(moods)
		}
		if len(moods) == 0 {
			fmt.Println("No moods recorded.")
			return nil
		}

		dates := make([]string, 0, len(moods))
		for d := range moods {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for _, d := range dates {
			fmt.Printf("%s  %s\n", d, moods[d].Mood)
		}
		return nil
	},
}

func init() {
	moodSetCmd.Flags().StringVar(&moodDate, "date", "", "ISO date to record the mood on (default today)")
	moodCmd.AddCommand(moodSetCmd)
	moodCmd.AddCommand(moodListCmd)
}
