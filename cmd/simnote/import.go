// Import command merges a bulk export document.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge entries and moods from an export document",
	Long: `Import merges a document produced by simnote export. Entries already
present resolve last-write-wins by their updated timestamp; daily moods
overwrite by date. Reads stdin when no file is given.

Example:
  simnote import journal.json
  simnote export --data-dir /old | simnote import`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitUserError)
		}

		j, err := openJournal()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}
		defer j.Close()

		n := j.ImportJSON(data)
		fmt.Printf("Imported %d entries\n", n)
		return nil
	},
}
