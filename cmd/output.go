package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"equipment-logbook/internal/logbook"
)

var assumeYes bool

// renderTable prints a pretty table to out
func renderTable(out io.Writer, headers []string, rows [][]any) {
	t := table.NewWriter()
	t.SetOutputMirror(out)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.Render()
}

// prompter asks on in and answers on out unless --yes was given.
func prompter(in io.Reader, out io.Writer) logbook.Confirm {
	if assumeYes {
		return logbook.Confirmed
	}
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func stdinPrompter() logbook.Confirm {
	return prompter(os.Stdin, os.Stderr)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "confirm every change without prompting")
}
