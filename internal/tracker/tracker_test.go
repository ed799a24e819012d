package tracker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/casetrack/casetrack/internal/export"
	"github.com/casetrack/casetrack/internal/index"
	"github.com/casetrack/casetrack/internal/jira"
	"github.com/casetrack/casetrack/internal/store"
)

func newTestTracker(t *testing.T) (*Tracker, *store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st, err := store.Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	ix := index.Open(st, logger)
	return New(st, ix, jira.NewStubProvider(), logger), st
}

func TestAddTicketsCreatesRecord(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	rec, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1"}, "")
	if err != nil {
		t.Fatalf("AddTickets failed: %v", err)
	}
	if rec.TotalTickets != 1 || len(rec.Tickets) != 1 {
		t.Fatalf("expected one ticket, got %#v", rec)
	}
	if rec.Tickets[0].Key != "ACME-1" {
		t.Fatalf("unexpected ticket key %q", rec.Tickets[0].Key)
	}
	if rec.Tickets[0].CaseID != store.UnassignedCase {
		t.Fatalf("expected sentinel case ID, got %q", rec.Tickets[0].CaseID)
	}

	got := tr.GetCustomerTickets(ctx, "Acme")
	if got.TotalTickets != 1 || got.Tickets[0].Key != "ACME-1" {
		t.Fatalf("expected persisted ticket, got %#v", got)
	}
}

func TestAddTicketsIdempotent(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	first, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1", "ACME-2"}, "")
	if err != nil {
		t.Fatalf("first AddTickets failed: %v", err)
	}

	second, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1"}, "")
	if err != nil {
		t.Fatalf("second AddTickets failed: %v", err)
	}

	if second.TotalTickets != 2 {
		t.Fatalf("repeat add changed total_tickets: %d", second.TotalTickets)
	}
	opts := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(first.Tickets, second.Tickets, opts); diff != "" {
		t.Fatalf("repeat add changed tickets (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.TicketKeys, second.TicketKeys); diff != "" {
		t.Fatalf("repeat add changed ticket_keys (-first +second):\n%s", diff)
	}
}

func TestAddTicketsUpdatesNotes(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	rec, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1"}, "met on-site")
	if err != nil {
		t.Fatalf("AddTickets failed: %v", err)
	}
	if rec.Notes != "met on-site" {
		t.Fatalf("expected notes to be set, got %q", rec.Notes)
	}

	// Empty notes on a later add leave the stored notes alone.
	rec, err = tr.AddTickets(ctx, "Acme", []string{"ACME-2"}, "")
	if err != nil {
		t.Fatalf("second AddTickets failed: %v", err)
	}
	if rec.Notes != "met on-site" {
		t.Fatalf("expected notes preserved, got %q", rec.Notes)
	}
}

func TestAddCommentAndCounters(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1"}, ""); err != nil {
		t.Fatalf("AddTickets failed: %v", err)
	}

	rec, err := tr.AddComment(ctx, "Acme", "ACME-1", "customer called")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if rec.TotalComments != 1 {
		t.Fatalf("expected total_comments 1, got %d", rec.TotalComments)
	}
	if got := rec.Tickets[0].Comments[0].Comment; got != "customer called" {
		t.Fatalf("unexpected comment %q", got)
	}
}

func TestAddCommentUnknownTicket(t *testing.T) {
	tr, st := newTestTracker(t)
	ctx := context.Background()

	if _, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1"}, ""); err != nil {
		t.Fatalf("AddTickets failed: %v", err)
	}
	before := st.Load("Acme")

	_, err := tr.AddComment(ctx, "Acme", "NO-SUCH-KEY", "x")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}

	after := st.Load("Acme")
	opts := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(before, after, opts); diff != "" {
		t.Fatalf("failed comment mutated the record (-before +after):\n%s", diff)
	}
}

func TestUpdateNotesLastWriteWins(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tr.UpdateNotes(ctx, "Acme", "first"); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	rec, err := tr.UpdateNotes(ctx, "Acme", "second")
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if rec.Notes != "second" {
		t.Fatalf("expected last write to win, got %q", rec.Notes)
	}
}

func TestRemoveTickets(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1", "ACME-2"}, ""); err != nil {
		t.Fatalf("AddTickets failed: %v", err)
	}

	rec, err := tr.RemoveTickets(ctx, "Acme", []string{"ACME-1", "GHOST-9"})
	if err != nil {
		t.Fatalf("RemoveTickets failed: %v", err)
	}
	if rec.TotalTickets != 1 {
		t.Fatalf("expected 1 ticket after removal, got %d", rec.TotalTickets)
	}
	if diff := cmp.Diff([]string{"ACME-2"}, rec.TicketKeys); diff != "" {
		t.Fatalf("unexpected ticket_keys (-want +got):\n%s", diff)
	}
}

func TestListCustomers(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	for _, name := range []string{"Acme", "Globex"} {
		if _, err := tr.AddTickets(ctx, name, []string{name + "-1"}, ""); err != nil {
			t.Fatalf("AddTickets %s failed: %v", name, err)
		}
	}

	summaries := tr.ListCustomers(ctx)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 customers, got %#v", summaries)
	}
}

func TestRebuildAndQueries(t *testing.T) {
	tr, st := newTestTracker(t)
	ctx := context.Background()

	// Two customers sharing one case ID, written through the store so the
	// case assignment is visible to the rebuild.
	for _, name := range []string{"Acme", "Globex"} {
		rec := st.Load(name)
		rec.Tickets = append(rec.Tickets, store.Ticket{
			Key:    name + "-1",
			Title:  name + " outage",
			CaseID: "CASE-9",
		})
		rec.TicketKeys = append(rec.TicketKeys, name+"-1")
		rec.Recount()
		if err := st.Save(rec); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	if err := tr.RebuildIndex(ctx); err != nil {
		t.Fatalf("RebuildIndex failed: %v", err)
	}

	if diff := cmp.Diff([]string{"CASE-9"}, tr.AllCaseIDs(ctx)); diff != "" {
		t.Fatalf("unexpected case IDs (-want +got):\n%s", diff)
	}

	info, err := tr.CaseInfo(ctx, "CASE-9")
	if err != nil {
		t.Fatalf("CaseInfo failed: %v", err)
	}
	if len(info.Tickets) != 2 {
		t.Fatalf("expected 2 tickets under CASE-9, got %#v", info)
	}

	hits := tr.SearchTickets(ctx, "OUTAGE")
	if len(hits) != 2 {
		t.Fatalf("expected 2 search hits, got %#v", hits)
	}

	stats := tr.Stats(ctx)
	if stats.TotalCustomers != 2 || stats.TotalTickets != 2 || stats.TotalCases != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestExportSavesFile(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tr.AddTickets(ctx, "Acme", []string{"ACME-1"}, "important"); err != nil {
		t.Fatalf("AddTickets failed: %v", err)
	}

	result, err := tr.Export(ctx, "Acme", "markdown", true, true)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(result.Content, "# Customer: Acme") {
		t.Fatalf("unexpected export content:\n%s", result.Content)
	}
	if result.Path == "" {
		t.Fatal("expected a saved export path")
	}
	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	if string(data) != result.Content {
		t.Fatal("export file content does not match rendered output")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, err := tr.Export(context.Background(), "Acme", "pdf", false, false)
	if !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
