// Package tracker is the operation façade consumed by the CLI, HTTP, and MCP
// adapters. Every mutation follows the same shape: load the customer record
// (or synthesize an empty one), apply the single change, recompute the
// derived counters, save.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/casetrack/casetrack/internal/export"
	"github.com/casetrack/casetrack/internal/index"
	"github.com/casetrack/casetrack/internal/jira"
	"github.com/casetrack/casetrack/internal/store"
)

// ErrTicketNotFound is returned when a comment targets a ticket key the
// customer record does not track.
var ErrTicketNotFound = errors.New("tracker: ticket not found")

// Tracker wires the record store, the global index, and the external ticket
// info provider behind one operation surface.
type Tracker struct {
	store *store.Store
	index *index.Index
	info  jira.TicketInfoProvider
	log   *slog.Logger
}

// New constructs the façade. A nil provider disables title resolution on add;
// a nil logger falls back to slog.Default.
func New(st *store.Store, ix *index.Index, provider jira.TicketInfoProvider, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: st, index: ix, info: provider, log: logger}
}

// GetCustomerTickets returns the full record for a customer. Unknown
// customers yield an empty record, mirroring the storage contract.
func (t *Tracker) GetCustomerTickets(_ context.Context, customer string) *store.CustomerRecord {
	return t.store.Load(customer)
}

// AddTickets adds the given ticket keys to the customer, skipping keys the
// record already tracks. Reissuing a key is a no-op for that key, not an
// error. Non-empty notes replace the stored notes.
func (t *Tracker) AddTickets(ctx context.Context, customer string, keys []string, notes string) (*store.CustomerRecord, error) {
	rec := t.store.Load(customer)

	for _, key := range keys {
		if rec.HasTicket(key) {
			continue
		}

		title := ""
		if t.info != nil {
			resolved, err := t.info.TicketTitle(ctx, key)
			if err != nil {
				t.log.Warn("ticket title lookup failed", "key", key, "error", err)
			} else {
				title = resolved
			}
		}

		rec.TicketKeys = append(rec.TicketKeys, key)
		rec.Tickets = append(rec.Tickets, store.Ticket{
			Key:       key,
			Title:     title,
			CaseID:    store.UnassignedCase,
			AddedDate: time.Now(),
			Comments:  []store.Comment{},
		})
	}

	if notes != "" {
		rec.Notes = notes
	}

	rec.Recount()
	if err := t.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AddComment appends a comment to the given ticket. The ticket key must
// already be tracked; otherwise the record is left unchanged and
// ErrTicketNotFound is returned.
func (t *Tracker) AddComment(_ context.Context, customer, key, comment string) (*store.CustomerRecord, error) {
	rec := t.store.Load(customer)

	ticket := rec.FindTicket(key)
	if ticket == nil {
		return nil, fmt.Errorf("%w: %s on customer %s", ErrTicketNotFound, key, customer)
	}

	ticket.Comments = append(ticket.Comments, store.Comment{
		Comment:   comment,
		Timestamp: time.Now(),
	})

	rec.Recount()
	if err := t.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateNotes replaces the customer's free-text notes. Last write wins.
func (t *Tracker) UpdateNotes(_ context.Context, customer, notes string) (*store.CustomerRecord, error) {
	rec := t.store.Load(customer)
	rec.Notes = notes

	rec.Recount()
	if err := t.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RemoveTickets deletes the given keys from both the ticket list and the key
// set. Removing a key that is not tracked is a silent no-op.
func (t *Tracker) RemoveTickets(_ context.Context, customer string, keys []string) (*store.CustomerRecord, error) {
	rec := t.store.Load(customer)

	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	kept := rec.Tickets[:0]
	for _, ticket := range rec.Tickets {
		if !drop[ticket.Key] {
			kept = append(kept, ticket)
		}
	}
	rec.Tickets = kept

	keptKeys := rec.TicketKeys[:0]
	for _, k := range rec.TicketKeys {
		if !drop[k] {
			keptKeys = append(keptKeys, k)
		}
	}
	rec.TicketKeys = keptKeys

	rec.Recount()
	if err := t.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListCustomers returns a summary for every stored customer record.
func (t *Tracker) ListCustomers(_ context.Context) []store.Summary {
	return t.store.ListAll()
}

// ExportResult carries a rendered export and, when saved, its path.
type ExportResult struct {
	Content string `json:"content"`
	Path    string `json:"path,omitempty"`
}

// Export renders the customer record in the requested format, optionally
// saving it into the data directory.
func (t *Tracker) Export(ctx context.Context, customer, format string, includeExternalInfo, saveToFile bool) (*ExportResult, error) {
	rec := t.store.Load(customer)

	content, err := export.Render(ctx, rec, format, t.info, export.Options{
		IncludeExternalInfo: includeExternalInfo,
	})
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Content: content}
	if saveToFile {
		path := filepath.Join(t.store.Dir(), export.FileName(customer))
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return nil, fmt.Errorf("%w: export %s: %v", store.ErrWrite, path, err)
		}
		result.Path = path
	}
	return result, nil
}

// CaseInfo looks up a case ID in the index snapshot.
func (t *Tracker) CaseInfo(_ context.Context, caseID string) (*index.CaseEntry, error) {
	return t.index.CaseInfo(caseID)
}

// SearchTickets matches indexed ticket titles case-insensitively.
func (t *Tracker) SearchTickets(_ context.Context, term string) []index.SearchHit {
	return t.index.SearchTicketsByTitle(term)
}

// AllCaseIDs returns every indexed case ID.
func (t *Tracker) AllCaseIDs(_ context.Context) []string {
	return t.index.AllCaseIDs()
}

// RebuildIndex regenerates the global index from all customer records.
func (t *Tracker) RebuildIndex(_ context.Context) error {
	return t.index.Rebuild()
}

// Stats returns the index aggregates.
func (t *Tracker) Stats(_ context.Context) index.Stats {
	return t.index.Stats()
}
