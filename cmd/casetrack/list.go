package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/casetrack/casetrack/internal/store"
)

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			summaries := tr.ListCustomers(context.Background())

			switch format {
			case "json":
				return outputJSON(cmd, summaries)
			case "table":
				outputTable(cmd, summaries)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type listOutputEntry struct {
	Customer     string `json:"customer"`
	TotalTickets int    `json:"total_tickets"`
	LastUpdated  string `json:"last_updated"`
}

func outputJSON(cmd *cobra.Command, summaries []store.Summary) error {
	output := make([]listOutputEntry, 0, len(summaries))
	for _, s := range summaries {
		output = append(output, listOutputEntry{
			Customer:     s.Customer,
			TotalTickets: s.TotalTickets,
			LastUpdated:  s.LastUpdated.Format(time.RFC3339),
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func getTerminalWidth() int {
	// Try to get terminal width from stdout
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	// Default width if terminal size cannot be determined
	return 80
}

// wrapString wraps a string to fit within maxWidth, accounting for multi-byte characters
func wrapString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range s {
		charWidth := runewidth.RuneWidth(r)

		if currentWidth+charWidth > maxWidth {
			if currentWidth > 0 {
				result.WriteString(currentLine.String())
				result.WriteString("\n")
				currentLine.Reset()
				currentWidth = 0
			}
		}

		currentLine.WriteRune(r)
		currentWidth += charWidth
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// columnWidths holds the calculated widths for each column
type columnWidths struct {
	customer     int
	tickets      int
	updated      int
	useShortDate bool
}

// calculateColumnWidths determines column widths based on terminal width and data
func calculateColumnWidths(termWidth int, summaries []store.Summary) columnWidths {
	// Reserve space for table borders and padding (roughly 3 chars per column)
	availableWidth := termWidth - 3*3

	ticketsWidth := 7  // "Tickets"
	updatedWidth := 19 // "2006-01-02 15:04:05"

	maxCustomerWidth := 0
	for _, s := range summaries {
		if w := runewidth.StringWidth(s.Customer); w > maxCustomerWidth {
			maxCustomerWidth = w
		}
	}

	customerWidth := maxCustomerWidth
	if customerWidth < 10 {
		customerWidth = 10
	}

	// Fall back to a short date when long customer names crowd the row
	useShortDate := false
	if customerWidth+ticketsWidth+updatedWidth > availableWidth {
		updatedWidth = 11 // "01-02 15:04"
		useShortDate = true
	}
	if remaining := availableWidth - ticketsWidth - updatedWidth; customerWidth > remaining {
		customerWidth = remaining
	}
	if customerWidth < 10 {
		customerWidth = 10
	}

	return columnWidths{
		customer:     customerWidth,
		tickets:      ticketsWidth,
		updated:      updatedWidth,
		useShortDate: useShortDate,
	}
}

func outputTable(cmd *cobra.Command, summaries []store.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	widths := calculateColumnWidths(termWidth, summaries)

	// Wrap customer names manually rather than via go-pretty's WidthMax,
	// which does not handle multi-byte characters correctly.
	t.AppendHeader(table.Row{"Customer", "Tickets", "Last Updated"})

	for _, s := range summaries {
		var updated string
		if widths.useShortDate {
			updated = s.LastUpdated.Format("01-02 15:04")
		} else {
			updated = s.LastUpdated.Format("2006-01-02 15:04:05")
		}

		t.AppendRow(table.Row{
			wrapString(s.Customer, widths.customer),
			s.TotalTickets,
			updated,
		})
	}

	t.Render()
}
