// Package store implements the customer record store: one durable JSON
// document per customer, addressed by a normalized form of the customer name.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// IndexFileName is the file inside the data directory that holds the global
// index. The store skips it when scanning for customer records.
const IndexFileName = "global_index.json"

// ErrWrite indicates a customer record could not be written durably.
var ErrWrite = errors.New("store: write failed")

// Store owns the data directory holding one JSON file per customer.
//
// There is no locking or versioning on the record files: the design assumes
// a single in-flight mutation per customer. Two concurrent writers to the
// same customer race and the last write wins.
type Store struct {
	dir string
	log *slog.Logger
}

// Open ensures the data directory exists and returns a store over it.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Dir returns the data directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// NormalizeName replaces spaces and path separators in a customer name so it
// can be used as a file name. Names differing only in the substituted
// characters collide; that is a documented limitation.
func NormalizeName(customer string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return replacer.Replace(customer)
}

// FilePath returns the storage location for a customer's record.
func (s *Store) FilePath(customer string) string {
	return filepath.Join(s.dir, NormalizeName(customer)+".json")
}

// Load returns the stored record for the customer, or a fresh empty record
// if none exists or the stored payload is unreadable. Corruption never
// propagates past this boundary; it degrades to "record does not exist".
func (s *Store) Load(customer string) *CustomerRecord {
	path := s.FilePath(customer)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("unreadable customer record, starting fresh", "customer", customer, "error", err)
		}
		return NewCustomerRecord(customer)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		s.log.Warn("corrupt customer record, starting fresh", "customer", customer, "path", path, "error", err)
		return NewCustomerRecord(customer)
	}
	if rec.Customer == "" {
		rec.Customer = customer
	}
	return rec
}

// Save overwrites the record at its derived location via an atomic rename.
// Callers recompute counters before saving; Save only persists.
func (s *Store) Save(rec *CustomerRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrWrite, rec.Customer, err)
	}

	path := s.FilePath(rec.Customer)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	s.log.Debug("saved customer record", "customer", rec.Customer, "tickets", rec.TotalTickets)
	return nil
}

// ListAll scans every stored record and returns summaries in lexical file
// order. Unreadable records are skipped with a warning rather than aborting
// the whole listing.
func (s *Store) ListAll() []Summary {
	summaries := []Summary{}
	for _, rec := range s.Records() {
		summaries = append(summaries, Summary{
			Customer:     rec.Customer,
			TotalTickets: rec.TotalTickets,
			LastUpdated:  rec.LastUpdated,
		})
	}
	return summaries
}

// Records decodes every customer record in the data directory, in lexical
// file order, excluding the global index document. Records that cannot be
// read or decoded are skipped with a warning.
func (s *Store) Records() []*CustomerRecord {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn("cannot scan data dir", "dir", s.dir, "error", err)
		return nil
	}

	var records []*CustomerRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == IndexFileName || !strings.HasSuffix(name, ".json") {
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable customer file", "path", path, "error", err)
			continue
		}

		rec, err := decodeRecord(data)
		if err != nil {
			s.log.Warn("skipping corrupt customer file", "path", path, "error", err)
			continue
		}
		if rec.Customer == "" {
			rec.Customer = strings.TrimSuffix(name, ".json")
		}
		records = append(records, rec)
	}
	return records
}

func decodeRecord(data []byte) (*CustomerRecord, error) {
	var rec CustomerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Tickets == nil {
		rec.Tickets = []Ticket{}
	}
	if rec.TicketKeys == nil {
		rec.TicketKeys = []string{}
	}
	return &rec, nil
}
