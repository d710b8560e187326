// Shared helpers for simnote CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/simnote-app/simnote/pkg/store"
	"github.com/simnote-app/simnote/pkg/types"
)

// openJournal resolves directories from flags and config and opens the
// storage facade. The caller must defer Close.
func openJournal() (*store.Journal, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := flagBackend
	if backend == "" {
		backend = configBackend
	}
	filesDir := flagFilesDir
	if filesDir == "" {
		filesDir = configFilesDir
	}

	cfg := types.Config{
		Backend:  backend,
		DataDir:  dataDir,
		FilesDir: filesDir,
	}
	return store.Open(cfg, store.Options{Logger: cliLogger()})
}

// cliLogger keeps backend chatter off the terminal unless it matters.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printEntry renders one entry in full.
func printEntry(e *types.Entry) {
	fmt.Printf("%s%s\n", color.New(color.Bold).Sprint(e.Name), favoriteMark(e))
	fmt.Printf("  id:      %s\n", e.ID)
	fmt.Printf("  created: %s\n", e.CreatedAt.Local().Format(time.RFC822))
	if !e.UpdatedAt.Equal(e.CreatedAt) {
		fmt.Printf("  updated: %s\n", e.UpdatedAt.Local().Format(time.RFC822))
	}
	if e.Mood != "" {
		fmt.Printf("  mood:    %s\n", e.Mood)
	}
	if len(e.Tags) > 0 {
		fmt.Printf("  tags:    %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Printf("  words:   %d\n", e.WordCount)
	if e.Content != "" {
		fmt.Println()
		fmt.Println(e.Content)
	}
}

// printEntryLine renders one entry as a list row.
func printEntryLine(idx int, e *types.Entry) {
	fmt.Printf("%3d  %s  %s%s", idx, e.CreatedAt.Local().Format("2006-01-02"),
		color.New(color.Bold).Sprint(e.Name), favoriteMark(e))
	if len(e.Tags) > 0 {
		fmt.Printf("  %s", color.CyanString("[%s]", strings.Join(e.Tags, ", ")))
	}
	fmt.Println()
}

func favoriteMark(e *types.Entry) string {
	if e.Favorite {
		return color.YellowString(" *")
	}
	return ""
}

// parseIndex converts a positional reference into a bounds-checked index.
func parseIndex(ref string, n int) (int, error) {
	idx, err := strconv.Atoi(ref)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("index %d out of range", idx)
	}
	return idx, nil
}

// splitTags parses a comma-separated tag list, trimming whitespace and
// dropping empties.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
