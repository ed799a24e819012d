package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/casetrack/casetrack/internal/jira"
	"github.com/casetrack/casetrack/internal/store"
)

func sampleRecord() *store.CustomerRecord {
	rec := store.NewCustomerRecord("Acme")
	rec.Notes = "priority customer"
	rec.Tickets = []store.Ticket{
		{
			Key:       "ACME-1",
			Title:     "Login Failure",
			CaseID:    "CASE-1",
			AddedDate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Comments: []store.Comment{
				{Comment: "first look", Timestamp: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)},
			},
		},
		{Key: "ACME-2", CaseID: store.UnassignedCase},
	}
	rec.TicketKeys = []string{"ACME-1", "ACME-2"}
	rec.Recount()
	return rec
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render(context.Background(), sampleRecord(), "markdown", nil, Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"# Customer: Acme",
		"## Notes",
		"priority customer",
		"## Tickets (2)",
		"### ACME-1: Login Failure",
		"- Case ID: CASE-1",
		"- 2026-01-03T00:00:00Z: first look",
		"### ACME-2: (untitled)",
		"- Case ID: " + store.UnassignedCase,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderIncludesExternalInfo(t *testing.T) {
	out, err := Render(context.Background(), sampleRecord(), "", jira.NewStubProvider(), Options{IncludeExternalInfo: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "- Status: N/A (pending integration)") {
		t.Fatalf("expected external info block, got:\n%s", out)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), sampleRecord(), "pdf", nil, Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Acme Corp"); got != "Acme_Corp_export.md" {
		t.Fatalf("unexpected export file name %q", got)
	}
}
