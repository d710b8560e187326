// Edit command updates an existing entry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simnote-app/simnote/pkg/types"
)

var (
	editTitle      string
	editContent    string
	editMood       string
	editTags       string
	editFontFamily string
	editFontSize   string
)

var editCmd = &cobra.Command{
	Use:   "edit <id|index>",
	Short: "Update an entry's fields",
	Long: `Edit replaces the given fields of an entry and bumps its updated
timestamp. Fields not passed keep their current value.

Example:
  simnote edit 0 --content "Actually we landed at one"
  simnote edit 1700000000000-aabbccdd --tags travel,food`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "edit:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		current, ok := j.EntryByID(args[0])
		if !ok {
			entries := j.Entries()
			if idx, convErr := parseIndex(args[0], len(entries)); convErr == nil {
				current, ok = entries[idx], true
			}
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "entry %q not found\n", args[0])
			os.Exit(exitUserError)
		}

		draft := types.EntryDraft{
			Name:       current.Name,
			Content:    current.Content,
			Mood:       current.Mood,
			Tags:       current.Tags,
			FontFamily: current.FontFamily,
			FontSize:   current.FontSize,
		}
		if cmd.Flags().Changed("title") {
			draft.Name = editTitle
		}
		if cmd.Flags().Changed("content") {
			draft.Content = editContent
		}
		if cmd.Flags().Changed("mood") {
			draft.Mood = editMood
		}
		if cmd.Flags().Changed("tags") {
			draft.Tags = splitTags(editTags)
		}
		if cmd.Flags().Changed("font-family") {
			draft.FontFamily = editFontFamily
		}
		if cmd.Flags().Changed("font-size") {
			draft.FontSize = editFontSize
		}

		entry, ok := j.UpdateEntry(current.ID, draft)
		if !ok {
			fmt.Fprintf(os.Stderr, "updating entry %q failed\n", current.ID)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entry)
		}
		fmt.Printf("Updated entry %s (%d words)\n", entry.ID, entry.WordCount)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editContent, "content", "", "new content")
	editCmd.Flags().StringVar(&editMood, "mood", "", "new mood")
	editCmd.Flags().StringVar(&editTags, "tags", "", "comma-separated tags, replacing the current set")
	editCmd.Flags().StringVar(&editFontFamily, "font-family", "", "new display font family")
	editCmd.Flags().StringVar(&editFontSize, "font-size", "", "new display font size")
}
