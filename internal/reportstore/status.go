package reportstore

import (
	"fmt"
	"time"

	"github.com/scangrade/scangrade/schema"
)

// PrintCacheStatus writes a human-readable summary of the grade cache.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Grade cache backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Cached reports: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Newest entry: %s\n", status.LastEntryTime.Format(time.DateTime))
		fmt.Printf("Oldest entry: %s\n", status.OldestEntryTime.Format(time.DateTime))
	}
	fmt.Printf("Approximate size: %d bytes\n", status.TableSizeBytes)
}

// PrintRunStatus writes a human-readable summary of the run store.
func PrintRunStatus(status schema.RunStatus) {
	fmt.Printf("Run store backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Recorded runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last run: #%d at %s\n", status.LastRunID, status.LastRunTime.Format(time.DateTime))
		fmt.Printf("Oldest run: %s\n", status.OldestRunTime.Format(time.DateTime))
		fmt.Printf("Images graded across all runs: %d\n", status.TotalImagesGraded)
	}
	fmt.Println("Row counts:")
	for table, rows := range status.TableSizes {
		fmt.Printf("  %s: %d\n", table, rows)
	}
}
