// Package mcp exposes the tracker operations as MCP tools for AI-agent hosts.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/casetrack/casetrack/internal/index"
	"github.com/casetrack/casetrack/internal/store"
	"github.com/casetrack/casetrack/internal/tracker"
)

// Server wraps the MCP server with casetrack-specific tools.
type Server struct {
	server  *mcp.Server
	tracker *tracker.Tracker
	log     *slog.Logger
}

// NewServer creates an MCP server over the given tracker façade.
func NewServer(tr *tracker.Tracker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "casetrack",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		server:  mcpServer,
		tracker: tr,
		log:     logger,
	}
	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting MCP server", "transport", "stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_customer_tickets",
		Description: "Get all tickets for a specific customer",
	}, s.handleGetCustomerTickets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_customer_tickets",
		Description: "Add tickets to a customer's tracking list",
	}, s.handleAddTickets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_ticket_comment",
		Description: "Add a comment to a specific ticket",
	}, s.handleAddComment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_customer_notes",
		Description: "Update notes for a customer",
	}, s.handleUpdateNotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_customer_tickets",
		Description: "Remove tickets from a customer's tracking list",
	}, s.handleRemoveTickets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_customers",
		Description: "List all customers with their ticket counts",
	}, s.handleListCustomers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_customer_data",
		Description: "Export customer ticket data in Markdown format",
	}, s.handleExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_case_info",
		Description: "Look up the customer and tickets for a case ID",
	}, s.handleCaseInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_tickets",
		Description: "Search indexed tickets by title (case-insensitive)",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_all_case_ids",
		Description: "List every case ID in the global index",
	}, s.handleAllCaseIDs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rebuild_index",
		Description: "Rebuild the global index from all customer records",
	}, s.handleRebuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_index_stats",
		Description: "Get global index statistics",
	}, s.handleStats)
}

// Input/Output types for each tool

type GetTicketsInput struct {
	CustomerName string `json:"customer_name" jsonschema:"Name of the customer"`
}

type RecordOutput struct {
	Record *store.CustomerRecord `json:"record"`
}

type AddTicketsInput struct {
	CustomerName string   `json:"customer_name" jsonschema:"Name of the customer"`
	TicketKeys   []string `json:"ticket_keys" jsonschema:"Ticket keys to add"`
	Notes        *string  `json:"notes,omitempty" jsonschema:"Optional notes about the customer"`
}

type AddCommentInput struct {
	CustomerName string `json:"customer_name" jsonschema:"Name of the customer"`
	TicketKey    string `json:"ticket_key" jsonschema:"Ticket key"`
	Comment      string `json:"comment" jsonschema:"Comment text to add"`
}

type UpdateNotesInput struct {
	CustomerName string `json:"customer_name" jsonschema:"Name of the customer"`
	Notes        string `json:"notes" jsonschema:"Notes to store for this customer"`
}

type RemoveTicketsInput struct {
	CustomerName string   `json:"customer_name" jsonschema:"Name of the customer"`
	TicketKeys   []string `json:"ticket_keys" jsonschema:"Ticket keys to remove"`
}

type ListCustomersInput struct{}

type ListCustomersOutput struct {
	Customers []store.Summary `json:"customers"`
}

type ExportInput struct {
	CustomerName        string  `json:"customer_name" jsonschema:"Name of the customer to export"`
	Format              *string `json:"format,omitempty" jsonschema:"Export format (default: markdown)"`
	IncludeExternalInfo *bool   `json:"include_external_info,omitempty" jsonschema:"Include external ticket tracker information"`
	SaveFile            *bool   `json:"save_file,omitempty" jsonschema:"Save export to file in the data directory (default: true)"`
}

type ExportOutput struct {
	Content string `json:"content"`
	Path    string `json:"path,omitempty"`
}

type CaseInfoInput struct {
	CaseID string `json:"case_id" jsonschema:"Case identifier"`
}

type CaseInfoOutput struct {
	CaseID string           `json:"case_id"`
	Entry  *index.CaseEntry `json:"entry"`
}

type SearchInput struct {
	Term string `json:"term" jsonschema:"Substring to match against ticket titles"`
}

type SearchOutput struct {
	Results []index.SearchHit `json:"results"`
}

type AllCaseIDsInput struct{}

type AllCaseIDsOutput struct {
	CaseIDs []string `json:"case_ids"`
}

type RebuildInput struct{}

type RebuildOutput struct {
	Message string      `json:"message"`
	Stats   index.Stats `json:"stats"`
}

type StatsInput struct{}

type StatsOutput struct {
	Stats index.Stats `json:"stats"`
}

// Tool handlers

func (s *Server) handleGetCustomerTickets(ctx context.Context, req *mcp.CallToolRequest, input GetTicketsInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec := s.tracker.GetCustomerTickets(ctx, input.CustomerName)
	return nil, RecordOutput{Record: rec}, nil
}

func (s *Server) handleAddTickets(ctx context.Context, req *mcp.CallToolRequest, input AddTicketsInput) (*mcp.CallToolResult, RecordOutput, error) {
	notes := ""
	if input.Notes != nil {
		notes = *input.Notes
	}

	rec, err := s.tracker.AddTickets(ctx, input.CustomerName, input.TicketKeys, notes)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	return nil, RecordOutput{Record: rec}, nil
}

func (s *Server) handleAddComment(ctx context.Context, req *mcp.CallToolRequest, input AddCommentInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.tracker.AddComment(ctx, input.CustomerName, input.TicketKey, input.Comment)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	return nil, RecordOutput{Record: rec}, nil
}

func (s *Server) handleUpdateNotes(ctx context.Context, req *mcp.CallToolRequest, input UpdateNotesInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.tracker.UpdateNotes(ctx, input.CustomerName, input.Notes)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	return nil, RecordOutput{Record: rec}, nil
}

func (s *Server) handleRemoveTickets(ctx context.Context, req *mcp.CallToolRequest, input RemoveTicketsInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.tracker.RemoveTickets(ctx, input.CustomerName, input.TicketKeys)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	return nil, RecordOutput{Record: rec}, nil
}

func (s *Server) handleListCustomers(ctx context.Context, req *mcp.CallToolRequest, input ListCustomersInput) (*mcp.CallToolResult, ListCustomersOutput, error) {
	return nil, ListCustomersOutput{Customers: s.tracker.ListCustomers(ctx)}, nil
}

func (s *Server) handleExport(ctx context.Context, req *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	format := ""
	if input.Format != nil {
		format = *input.Format
	}
	includeInfo := false
	if input.IncludeExternalInfo != nil {
		includeInfo = *input.IncludeExternalInfo
	}
	saveFile := true
	if input.SaveFile != nil {
		saveFile = *input.SaveFile
	}

	result, err := s.tracker.Export(ctx, input.CustomerName, format, includeInfo, saveFile)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{Content: result.Content, Path: result.Path}, nil
}

func (s *Server) handleCaseInfo(ctx context.Context, req *mcp.CallToolRequest, input CaseInfoInput) (*mcp.CallToolResult, CaseInfoOutput, error) {
	entry, err := s.tracker.CaseInfo(ctx, input.CaseID)
	if err != nil {
		return nil, CaseInfoOutput{}, err
	}
	return nil, CaseInfoOutput{CaseID: input.CaseID, Entry: entry}, nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	return nil, SearchOutput{Results: s.tracker.SearchTickets(ctx, input.Term)}, nil
}

func (s *Server) handleAllCaseIDs(ctx context.Context, req *mcp.CallToolRequest, input AllCaseIDsInput) (*mcp.CallToolResult, AllCaseIDsOutput, error) {
	return nil, AllCaseIDsOutput{CaseIDs: s.tracker.AllCaseIDs(ctx)}, nil
}

func (s *Server) handleRebuild(ctx context.Context, req *mcp.CallToolRequest, input RebuildInput) (*mcp.CallToolResult, RebuildOutput, error) {
	if err := s.tracker.RebuildIndex(ctx); err != nil {
		return nil, RebuildOutput{}, err
	}
	return nil, RebuildOutput{
		Message: "Global index rebuilt at " + time.Now().Format(time.RFC3339),
		Stats:   s.tracker.Stats(ctx),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	return nil, StatsOutput{Stats: s.tracker.Stats(ctx)}, nil
}
