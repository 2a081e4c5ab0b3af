// main is the entry point for the scangrade CLI.
package main

import (
	"fmt"
	"os"

	"github.com/scangrade/scangrade/cmd"
	"github.com/scangrade/scangrade/internal/reportstore"
)

func main() {
	cmd.SetStoreManager(reportstore.Manager)

	err := cmd.Execute()

	// Store handles and profiling must wind down before the process exits,
	// so no defer here since os.Exit would skip it.
	reportstore.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil && err == nil {
		err = perr
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
