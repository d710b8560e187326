// Add command creates a new journal entry.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/simnote-app/simnote/pkg/types"
)

var (
	addTitle      string
	addContent    string
	addMood       string
	addTags       string
	addFontFamily string
	addFontSize   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new journal entry",
	Long: `Add creates a new journal entry. Content comes from --content, or from
stdin when --content is omitted.

Example:
  simnote add --title "Trip to Rome" --content "We landed at noon" --tags travel
  echo "dictated on the go" | simnote add --title "Quick note"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := addContent
		if content == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, "read stdin:", err)
				os.Exit(exitSysError)
			}
			content = string(data)
		}

		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		entry, err := j.SaveEntry(types.EntryDraft{
			Name:       addTitle,
			Content:    content,
			Mood:       addMood,
			Tags:       splitTags(addTags),
			FontFamily: addFontFamily,
			FontSize:   addFontSize,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitUserError)
		}

		if flagJSON {
			return printJSON(entry)
		}
		fmt.Printf("Created entry %s (%d words)\n", entry.ID, entry.WordCount)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "entry title (required)")
	addCmd.Flags().StringVar(&addContent, "content", "", "entry content (reads stdin when omitted)")
	addCmd.Flags().StringVar(&addMood, "mood", "", "mood attached to the entry")
	addCmd.Flags().StringVar(&addTags, "tags", "", "comma-separated tags")
	addCmd.Flags().StringVar(&addFontFamily, "font-family", "", "display font family")
	addCmd.Flags().StringVar(&addFontSize, "font-size", "", "display font size")

	addCmd.MarkFlagRequired("title")
}
