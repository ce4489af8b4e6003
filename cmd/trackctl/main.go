// Command trackctl administers the shop floor tracker from a terminal:
// schema migration, seeding projects and work orders, applying scans and
// printing progress, duration reports and scan sheets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand(newCommandContext())
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
