package store

import "time"

// UnassignedCase is the placeholder written to tickets that have no case
// identifier yet. It is never inserted into the case index.
const UnassignedCase = "XXXXXXX"

// Comment is a single free-text comment on a ticket.
type Comment struct {
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket is one tracked issue-tracker ticket inside a customer record.
// AddedDate is set at creation and never changes afterwards.
type Ticket struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	CaseID    string    `json:"caseID"`
	AddedDate time.Time `json:"added_date"`
	Comments  []Comment `json:"comments"`
}

// CustomerRecord is the durable per-customer document and the source of
// truth for everything the global index derives.
//
// TicketKeys mirrors the keys of Tickets for fast membership checks.
// TotalTickets and TotalComments are recomputed from the ticket slice after
// every mutation; they are never trusted as independently stored state.
type CustomerRecord struct {
	Customer      string    `json:"customer"`
	Tickets       []Ticket  `json:"tickets"`
	TicketKeys    []string  `json:"ticket_keys"`
	Notes         string    `json:"notes"`
	LastUpdated   time.Time `json:"last_updated"`
	TotalTickets  int       `json:"total_tickets"`
	TotalComments int       `json:"total_comments"`
}

// Summary is the listing projection of a customer record.
type Summary struct {
	Customer     string    `json:"customer"`
	TotalTickets int       `json:"total_tickets"`
	LastUpdated  time.Time `json:"last_updated"`
}

// NewCustomerRecord returns an empty record for the given customer name.
func NewCustomerRecord(customer string) *CustomerRecord {
	return &CustomerRecord{
		Customer:    customer,
		Tickets:     []Ticket{},
		TicketKeys:  []string{},
		LastUpdated: time.Now(),
	}
}

// HasTicket reports whether the record already tracks the given ticket key.
func (r *CustomerRecord) HasTicket(key string) bool {
	for _, k := range r.TicketKeys {
		if k == key {
			return true
		}
	}
	return false
}

// FindTicket returns the ticket with the given key, or nil.
func (r *CustomerRecord) FindTicket(key string) *Ticket {
	for i := range r.Tickets {
		if r.Tickets[i].Key == key {
			return &r.Tickets[i]
		}
	}
	return nil
}

// Recount recomputes the derived counters from the ticket slice and bumps
// LastUpdated. Every mutation calls this before the record is saved.
func (r *CustomerRecord) Recount() {
	r.TotalTickets = len(r.Tickets)
	total := 0
	for i := range r.Tickets {
		total += len(r.Tickets[i].Comments)
	}
	r.TotalComments = total
	r.LastUpdated = time.Now()
}
