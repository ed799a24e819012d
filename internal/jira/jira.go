// Package jira defines the capability for resolving external ticket details.
// Real JIRA integration lives outside this system; the bundled implementation
// returns placeholders until it is wired up.
package jira

import "context"

// TicketInfo describes the externally-owned details of a ticket.
type TicketInfo struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
	LastUpdated string `json:"last_updated"`
}

// TicketInfoProvider resolves ticket details from the external tracker.
type TicketInfoProvider interface {
	TicketInfo(ctx context.Context, key string) (TicketInfo, error)
	TicketTitle(ctx context.Context, key string) (string, error)
}

const pending = "N/A (pending integration)"

// StubProvider is the placeholder implementation used until the external
// tracker integration is configured.
type StubProvider struct{}

// NewStubProvider returns the placeholder provider.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// TicketInfo returns placeholder details for any ticket key.
func (p *StubProvider) TicketInfo(_ context.Context, _ string) (TicketInfo, error) {
	return TicketInfo{
		Title:       pending,
		Status:      pending,
		Priority:    pending,
		Assignee:    pending,
		LastUpdated: pending,
	}, nil
}

// TicketTitle returns a placeholder title for any ticket key.
func (p *StubProvider) TicketTitle(_ context.Context, _ string) (string, error) {
	return pending, nil
}
