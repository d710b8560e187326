// Delete command removes an entry and its mirrored files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id|index>",
	Short: "Remove an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		if !j.DeleteEntry(args[0]) {
			fmt.Fprintf(os.Stderr, "entry %q not found\n", args[0])
			os.Exit(exitUserError)
		}

		fmt.Printf("Deleted entry %s\n", args[0])
		return nil
	},
}
