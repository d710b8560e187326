// List command shows entries newest-first, with optional filters.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simnote-app/simnote/pkg/types"
)

var (
	listTag       string
	listFavorites bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries newest-first",
	Long: `List prints all entries, newest first. Each row starts with the entry's
positional index, which other commands accept in place of the id.

Example:
  simnote list
  simnote list --tag travel
  simnote list --favorites`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		// Indexes are positions in the full newest-first list, so a row's
		// index stays valid as a reference even when filters hide rows.
		type row struct {
			idx   int
			entry *types.Entry
		}
		rows := []row{}
		for i, e := range j.Entries() {
			if listTag != "" && !e.HasTag(listTag) {
				continue
			}
			if listFavorites && !e.Favorite {
				continue
			}
			rows = append(rows, row{idx: i, entry: e})
		}

		if flagJSON {
			entries := make([]*types.Entry, 0, len(rows))
			for _, r := range rows {
				entries = append(entries, r.entry)
			}
			return printJSON(entries)
		}
		if len(rows) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, r := range rows {
			printEntryLine(r.idx, r.entry)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "only entries carrying this tag")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "only favorite entries")
}
