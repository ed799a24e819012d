// Package export renders customer records for export.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casetrack/casetrack/internal/jira"
	"github.com/casetrack/casetrack/internal/store"
)

// FormatMarkdown is the only supported export format.
const FormatMarkdown = "markdown"

// ErrUnsupportedFormat indicates the caller asked for a format other than
// markdown.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Options controls what the renderer includes.
type Options struct {
	// IncludeExternalInfo pulls status/priority/assignee per ticket from the
	// configured TicketInfoProvider.
	IncludeExternalInfo bool
}

// Render produces a markdown document for the customer record. An empty
// format defaults to markdown; anything else fails with ErrUnsupportedFormat.
func Render(ctx context.Context, rec *store.CustomerRecord, format string, provider jira.TicketInfoProvider, opts Options) (string, error) {
	if format == "" {
		format = FormatMarkdown
	}
	if format != FormatMarkdown {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Customer: %s\n\n", rec.Customer)
	fmt.Fprintf(&b, "_Last updated: %s_\n\n", rec.LastUpdated.Format(time.RFC3339))

	if rec.Notes != "" {
		b.WriteString("## Notes\n\n")
		b.WriteString(rec.Notes)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "## Tickets (%d)\n\n", len(rec.Tickets))

	for i := range rec.Tickets {
		t := &rec.Tickets[i]

		title := t.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "### %s: %s\n\n", t.Key, title)
		fmt.Fprintf(&b, "- Case ID: %s\n", t.CaseID)
		fmt.Fprintf(&b, "- Added: %s\n", t.AddedDate.Format(time.RFC3339))

		if opts.IncludeExternalInfo && provider != nil {
			info, err := provider.TicketInfo(ctx, t.Key)
			if err != nil {
				return "", fmt.Errorf("export: ticket info for %s: %w", t.Key, err)
			}
			fmt.Fprintf(&b, "- Status: %s\n", info.Status)
			fmt.Fprintf(&b, "- Priority: %s\n", info.Priority)
			fmt.Fprintf(&b, "- Assignee: %s\n", info.Assignee)
		}
		b.WriteString("\n")

		if len(t.Comments) > 0 {
			b.WriteString("Comments:\n\n")
			for _, c := range t.Comments {
				fmt.Fprintf(&b, "- %s: %s\n", c.Timestamp.Format(time.RFC3339), c.Comment)
			}
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// FileName returns the export file name for a customer.
func FileName(customer string) string {
	return store.NormalizeName(customer) + "_export.md"
}
