package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/metafed"
	"github.com/openlifting/oplengine/internal/query"
	"github.com/openlifting/oplengine/internal/records"
	"github.com/openlifting/oplengine/pkg/version"
)

// Server is the MCP tool server for oplengine. It wraps a compiled
// Database plus its query and records engines, read-only for the
// process lifetime, and exposes them as four MCP tools: rankings_query,
// records_query, lifter_lookup, meet_lookup.
type Server struct {
	mcp      *mcp.Server
	database *db.Database
	queries  *query.Engine
	records  *records.Engine
	logger   *slog.Logger
}

// NewServer wires a Database and its precomputed caches into an MCP
// Server. database, loglin, constant, and metafeds are exactly the
// components oplcheck build produces and oplquery consumes, so the
// three binaries share the same build path.
func NewServer(database *db.Database, loglin *cache.LogLinearCache, constant *cache.ConstantTimeCache, metafeds *metafed.Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		database: database,
		queries:  query.NewEngine(database, loglin, constant, metafeds),
		records:  records.NewEngine(database, loglin, constant, metafeds),
		logger:   logger,
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "oplengine",
		Version: version.Version,
	}, nil)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP SDK server, for callers (tests,
// alternate transports) that need direct access.
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rankings_query",
		Description: "Run a paginated powerlifting rankings query. path is the same slash-delimited selector the website URL uses (e.g. 'raw/men/by-wilks', 'ipf/women/2023'); an empty path returns the default raw+wraps all-sexes Wilks ranking.",
	}, s.rankingsQueryHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "records_query",
		Description: "Compute the seven records tables (full-power squat/bench/deadlift/total, any-event squat/bench/deadlift) for a selection of equipment, federation, sex, weight-class schema, age class, and year.",
	}, s.recordsQueryHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lifter_lookup",
		Description: "Look up lifters by username base (e.g. 'johndoe' also matches the disambiguated variants 'johndoe1', 'johndoe2', ...) and return each match's profile plus every competition entry on record.",
	}, s.lifterLookupHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "meet_lookup",
		Description: "Look up a meet by its canonical path (e.g. 'uspa/0485') and return the meet's details plus every entry recorded at it.",
	}, s.meetLookupHandler)

	s.logger.Debug("registered MCP tools", slog.Int("count", 4))
}

func (s *Server) rankingsQueryHandler(_ context.Context, _ *mcp.CallToolRequest, input RankingsQueryInput) (*mcp.CallToolResult, RankingsQueryOutput, error) {
	q, err := query.ParseRankingsQuery(input.Path, query.DefaultRankingsQuery())
	if err != nil {
		return nil, RankingsQueryOutput{}, MapError(err)
	}

	rows := s.queries.Execute(q)

	start, end := input.Start, input.End
	if end == 0 && start == 0 {
		end = 9
	}
	result, err := query.GetSlice(rows, start, end)
	if err != nil {
		return nil, RankingsQueryOutput{}, MapError(err)
	}

	entries := s.database.Entries()
	meets := s.database.Meets()
	lifters := s.database.Lifters()
	out := RankingsQueryOutput{
		TotalLength: result.TotalLength,
		Rows:        make([]RankingsRow, len(result.Rows)),
	}
	for i, id := range result.Rows {
		out.Rows[i] = toRankingsRow(start+i+1, entries, meets, lifters, id)
	}
	return nil, out, nil
}

func (s *Server) recordsQueryHandler(_ context.Context, _ *mcp.CallToolRequest, input RecordsQueryInput) (*mcp.CallToolResult, RecordsQueryOutput, error) {
	sel, err := records.ParseSelection(input.Path, records.DefaultSelection())
	if err != nil {
		return nil, RecordsQueryOutput{}, MapError(err)
	}

	tables, err := s.records.Find(sel)
	if err != nil {
		return nil, RecordsQueryOutput{}, MapError(err)
	}
	return nil, toRecordsOutput(s.database, tables), nil
}

func (s *Server) lifterLookupHandler(_ context.Context, _ *mcp.CallToolRequest, input LifterLookupInput) (*mcp.CallToolResult, LifterLookupOutput, error) {
	if input.Query == "" {
		return nil, LifterLookupOutput{}, NewInvalidParamsError("query is required")
	}
	ids := s.database.LiftersUnderUsernameBase(input.Query)
	if len(ids) == 0 {
		return nil, LifterLookupOutput{}, NewNotFoundError("no lifter matches username base " + input.Query)
	}

	meets := s.database.Meets()
	out := LifterLookupOutput{Lifters: make([]LifterLookupResult, 0, len(ids))}
	for _, id := range ids {
		lifter := s.database.Lifter(id)
		entries, err := s.database.EntriesForLifter(id)
		if err != nil {
			// A lifter row only ever exists because an entry created it, so
			// this is unreachable in practice; treat it as "no entries"
			// rather than failing the whole lookup.
			entries = nil
		}
		res := LifterLookupResult{
			Username:  lifter.Username,
			Name:      lifter.Name,
			Instagram: lifter.Instagram,
		}
		for _, e := range entries {
			m := &meets[e.MeetID]
			res.Entries = append(res.Entries, LifterLookupEntry{
				MeetPath:   m.Path,
				Date:       m.Date.String(),
				Federation: m.Federation.String(),
				Division:   e.DivisionString(),
				Equipment:  e.Equipment.String(),
				Event:      e.Event.String(),
				TotalKg:    e.TotalKg.Float64(),
				Place:      e.Place.String(),
			})
		}
		out.Lifters = append(out.Lifters, res)
	}
	return nil, out, nil
}

func (s *Server) meetLookupHandler(_ context.Context, _ *mcp.CallToolRequest, input MeetLookupInput) (*mcp.CallToolResult, MeetLookupOutput, error) {
	if input.Path == "" {
		return nil, MeetLookupOutput{}, NewInvalidParamsError("path is required")
	}
	id, ok := s.database.MeetID(input.Path)
	if !ok {
		return nil, MeetLookupOutput{}, NewNotFoundError("no meet at path " + input.Path)
	}
	meet := s.database.Meet(id)

	entries := s.database.EntriesForMeet(id)
	lifters := s.database.Lifters()
	out := MeetLookupOutput{
		Path:       meet.Path,
		Federation: meet.Federation.String(),
		Date:       meet.Date.String(),
		Country:    meet.Country.String(),
		State:      meet.State.String(),
		Town:       meet.Town,
		Name:       meet.Name,
		Sanctioned: meet.Sanctioned,
	}
	for _, e := range entries {
		l := &lifters[e.LifterID]
		out.Entries = append(out.Entries, MeetLookupEntry{
			Username:  l.Username,
			Name:      l.Name,
			Division:  e.DivisionString(),
			Equipment: e.Equipment.String(),
			Event:     e.Event.String(),
			TotalKg:   e.TotalKg.Float64(),
			Place:     e.Place.String(),
		})
	}
	return nil, out, nil
}

// Serve starts the server listening on stdio until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped")
	return nil
}
