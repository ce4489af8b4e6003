package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"shopfloor/internal/core/domain/model/workorder"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(cmd *cobra.Command, headers []string, rows [][]string, aligns []columnAlignment) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
		return err
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
	return err
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// statusLabel colours the status when stdout is a terminal.
func statusLabel(status workorder.Status, colorize bool) string {
	label := status.String()
	if !colorize {
		return label
	}
	switch status {
	case workorder.Completed:
		return ansiGreen + label + ansiReset
	case workorder.InProgress:
		return ansiYellow + label + ansiReset
	case workorder.Blocked:
		return ansiRed + label + ansiReset
	default:
		return label
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
