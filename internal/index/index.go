// Package index maintains the global lookup index derived from customer
// records. The index is never hand-edited: it is rebuilt wholesale from the
// record store and can be thrown away at any time.
//
// Queries answer strictly from the last rebuilt or loaded snapshot; they
// never consult the record store. Callers that mutate records and want fresh
// answers must trigger Rebuild explicitly.
package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/casetrack/casetrack/internal/store"
)

// ErrNotFound indicates the requested case ID or customer is not indexed.
var ErrNotFound = errors.New("index: not found")

// TicketRef is the compact per-ticket projection kept under each customer.
type TicketRef struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	CaseID string `json:"caseID"`
}

// CustomerEntry aggregates the indexed tickets of one customer.
type CustomerEntry struct {
	TotalTickets int         `json:"total_tickets"`
	Tickets      []TicketRef `json:"tickets"`
}

// CaseEntry maps a case ID back to its owning customers and ticket keys.
//
// Customer holds the first customer seen during the rebuild scan. Customers
// widens that to every customer sharing the case, in scan order; the original
// design silently overwrote the single field on cross-customer collisions.
type CaseEntry struct {
	Customer  string   `json:"customer"`
	Customers []string `json:"customers"`
	Tickets   []string `json:"tickets"`
}

// Stats summarizes the current index snapshot.
type Stats struct {
	TotalCustomers int       `json:"total_customers"`
	TotalTickets   int       `json:"total_tickets"`
	TotalCases     int       `json:"total_cases"`
	LastUpdated    time.Time `json:"last_updated"`
}

// SearchHit is one title-search result.
type SearchHit struct {
	Customer string `json:"customer"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	CaseID   string `json:"caseID"`
}

// snapshot is the persisted index document.
type snapshot struct {
	LastUpdated    time.Time                 `json:"last_updated"`
	TotalCustomers int                       `json:"total_customers"`
	TotalTickets   int                       `json:"total_tickets"`
	Customers      map[string]*CustomerEntry `json:"customers"`
	CaseIndex      map[string]*CaseEntry     `json:"case_index"`
}

func emptySnapshot() *snapshot {
	return &snapshot{
		LastUpdated: time.Now(),
		Customers:   map[string]*CustomerEntry{},
		CaseIndex:   map[string]*CaseEntry{},
	}
}

// Index answers case-ID and title-search queries from a derived snapshot.
//
// The mutex guards the in-process snapshot only; there is no cross-process
// coordination with writers of the underlying record files.
type Index struct {
	store *store.Store
	path  string
	log   *slog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// Open loads the persisted index from the store's data directory, falling
// back to an empty snapshot if the file is missing or unreadable.
func Open(st *store.Store, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}

	ix := &Index{
		store: st,
		path:  filepath.Join(st.Dir(), store.IndexFileName),
		log:   logger,
	}
	ix.snap = ix.load()
	return ix
}

func (ix *Index) load() *snapshot {
	data, err := os.ReadFile(ix.path)
	if err != nil {
		if !os.IsNotExist(err) {
			ix.log.Warn("unreadable global index, starting empty", "path", ix.path, "error", err)
		}
		return emptySnapshot()
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		ix.log.Warn("corrupt global index, starting empty", "path", ix.path, "error", err)
		return emptySnapshot()
	}
	if snap.Customers == nil {
		snap.Customers = map[string]*CustomerEntry{}
	}
	if snap.CaseIndex == nil {
		snap.CaseIndex = map[string]*CaseEntry{}
	}
	return &snap
}

// Rebuild recomputes the whole index from every customer record in the
// store, then persists it. Unreadable records are skipped by the store scan;
// a rebuild racing a concurrent record write yields a best-effort snapshot.
func (ix *Index) Rebuild() error {
	ix.log.Info("rebuilding global index")
	snap := emptySnapshot()

	for _, rec := range ix.store.Records() {
		entry := &CustomerEntry{
			TotalTickets: len(rec.Tickets),
			Tickets:      []TicketRef{},
		}
		snap.Customers[rec.Customer] = entry

		for _, t := range rec.Tickets {
			caseID := t.CaseID
			if caseID == "" {
				caseID = store.UnassignedCase
			}
			entry.Tickets = append(entry.Tickets, TicketRef{
				Key:    t.Key,
				Title:  t.Title,
				CaseID: caseID,
			})

			if caseID == store.UnassignedCase {
				continue
			}
			ce, ok := snap.CaseIndex[caseID]
			if !ok {
				ce = &CaseEntry{Customer: rec.Customer}
				snap.CaseIndex[caseID] = ce
			}
			if !containsString(ce.Customers, rec.Customer) {
				ce.Customers = append(ce.Customers, rec.Customer)
			}
			ce.Tickets = append(ce.Tickets, t.Key)
		}

		snap.TotalTickets += len(rec.Tickets)
	}

	snap.TotalCustomers = len(snap.Customers)

	if err := ix.persist(snap); err != nil {
		return err
	}

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()

	ix.log.Info("global index rebuilt",
		"customers", snap.TotalCustomers,
		"tickets", snap.TotalTickets,
		"cases", len(snap.CaseIndex))
	return nil
}

func (ix *Index) persist(snap *snapshot) error {
	snap.LastUpdated = time.Now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("index: encode: %w", err)
	}
	if err := atomic.WriteFile(ix.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("index: write %s: %w", ix.path, err)
	}
	return nil
}

// CaseInfo returns the indexed entry for a case ID.
func (ix *Index) CaseInfo(caseID string) (*CaseEntry, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entry, ok := ix.snap.CaseIndex[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: case %s", ErrNotFound, caseID)
	}
	out := *entry
	return &out, nil
}

// CustomerTickets returns the indexed entry for a customer.
func (ix *Index) CustomerTickets(customer string) (*CustomerEntry, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entry, ok := ix.snap.Customers[customer]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, customer)
	}
	out := *entry
	return &out, nil
}

// SearchTicketsByTitle performs a case-insensitive substring match over every
// indexed ticket title. Customers are visited in sorted name order so the
// result is stable for a given snapshot; hits are not relevance-ranked.
func (ix *Index) SearchTicketsByTitle(term string) []SearchHit {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	needle := strings.ToLower(term)
	hits := []SearchHit{}

	for _, customer := range sortedKeys(ix.snap.Customers) {
		for _, t := range ix.snap.Customers[customer].Tickets {
			if strings.Contains(strings.ToLower(t.Title), needle) {
				hits = append(hits, SearchHit{
					Customer: customer,
					Key:      t.Key,
					Title:    t.Title,
					CaseID:   t.CaseID,
				})
			}
		}
	}
	return hits
}

// AllCaseIDs returns every indexed case ID, sorted ascending.
func (ix *Index) AllCaseIDs() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return sortedKeys(ix.snap.CaseIndex)
}

// Stats returns the scalar aggregates of the current snapshot.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return Stats{
		TotalCustomers: ix.snap.TotalCustomers,
		TotalTickets:   ix.snap.TotalTickets,
		TotalCases:     len(ix.snap.CaseIndex),
		LastUpdated:    ix.snap.LastUpdated,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
