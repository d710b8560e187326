// Show command prints one entry in full.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id|index>",
	Short: "Show one entry in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		entry, ok := j.EntryByID(args[0])
		if !ok {
			// Fall back to positional index against the newest-first list.
			entries := j.Entries()
			if idx, convErr := parseIndex(args[0], len(entries)); convErr == nil {
				entry, ok = entries[idx], true
			}
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "entry %q not found\n", args[0])
			os.Exit(exitUserError)
		}

		if flagJSON {
			return printJSON(entry)
		}
		printEntry(entry)
		return nil
	},
}
