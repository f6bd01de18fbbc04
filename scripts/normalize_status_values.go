//go:build ignore

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Legacy exports used underscore status values; the schema CHECK now
// requires the hyphenated form.
var legacyToCurrent = map[string]string{
	"in_progress": "in-progress",
	"done":        "completed",
	"canceled":    "cancelled",
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Preview migration without executing")
	dbPath := flag.String("db", "", "Database path (default ~/.upkeep/upkeep.db)")
	flag.Parse()

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home dir: %v\n", err)
			os.Exit(1)
		}
		path = filepath.Join(homeDir, ".upkeep", "upkeep.db")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Database not found: %s\n", path)
		os.Exit(1)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	total := 0
	for legacy, current := range legacyToCurrent {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM tasks WHERE status = ?", legacy).Scan(&count); err != nil {
			fmt.Fprintf(os.Stderr, "Error counting %q rows: %v\n", legacy, err)
			os.Exit(1)
		}
		if count == 0 {
			continue
		}

		fmt.Printf("%d task(s) with legacy status %q -> %q\n", count, legacy, current)
		total += count

		if *dryRun {
			continue
		}

		if _, err := db.Exec("UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE status = ?", current, legacy); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating %q rows: %v\n", legacy, err)
			os.Exit(1)
		}
	}

	if total == 0 {
		fmt.Println("No legacy status values found; nothing to do.")
		return
	}
	if *dryRun {
		fmt.Println("Dry run: no changes written.")
		return
	}
	fmt.Printf("Normalized %d task(s).\n", total)
}
