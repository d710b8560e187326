// Favorite command toggles an entry's favorite flag.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id|index>",
	Short: "Toggle an entry's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "favorite:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		state, ok := j.ToggleFavorite(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "entry %q not found\n", args[0])
			os.Exit(exitUserError)
		}

		if state {
			fmt.Printf("Entry %s marked favorite\n", args[0])
		} else {
			fmt.Printf("Entry %s unmarked\n", args[0])
		}
		return nil
	},
}
