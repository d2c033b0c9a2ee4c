package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App wires the API client to the commands. All output goes through the
// injected writers so tests can capture it.
type App struct {
	client *APIClient
	out    io.Writer
	errOut io.Writer
	log    *zap.Logger

	// NoColor disables table styling even on a terminal.
	NoColor bool
	// LogLevel lets --debug raise verbosity after the logger is built.
	LogLevel zap.AtomicLevel
}

func NewApp(client *APIClient, out, errOut io.Writer, log *zap.Logger) *App {
	return &App{client: client, out: out, errOut: errOut, log: log}
}

// listOptions collects the flags shared by every list command.
type listOptions struct {
	Columns  string
	Sort     string
	Format   string
	Search   string
	Archived *bool
	// time-entry specific, passed to the store as query filters
	From     string
	To       string
	Billable *bool
}

// ListEntities fetches records of one kind and renders them. Column, sort
// and format validation happens before the store is contacted, so a bad
// invocation never costs a network call.
func (a *App) ListEntities(ctx context.Context, kind EntityKind, opts listOptions) error {
	catalog := catalogFor(kind)

	if err := validateFormat(opts.Format); err != nil {
		return usageErr(err)
	}
	sortAttr, err := catalog.SortAttribute(opts.Sort)
	if err != nil {
		return usageErr(err)
	}
	cols, err := catalog.Resolve(splitColumns(opts.Columns))
	if err != nil {
		return usageErr(err)
	}

	records, err := a.client.ListRecords(ctx, kind, listQuery(opts))
	if err != nil {
		return failureErr(err)
	}

	searchAttr := "name"
	if kind == EntityTimeEntry {
		searchAttr = "note"
	}
	filter := listFilter{Search: opts.Search, SearchAttr: searchAttr, Archived: opts.Archived}

	grid := buildGrid(records, filter.predicate(), sortAttr, cols)
	a.log.Debug("grid built",
		zap.Int("fetched", len(records)),
		zap.Int("rows", len(grid.Rows)),
		zap.String("format", opts.Format))

	if opts.Format == FormatTable && len(grid.Rows) == 0 {
		fmt.Fprintln(a.errOut, "no records matched")
	}

	if err := renderGrid(a.out, grid, opts.Format, !a.NoColor && opts.Format == FormatTable); err != nil {
		return failureErr(err)
	}
	return nil
}

// listQuery translates list options into store-side query filters.
func listQuery(opts listOptions) url.Values {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("name", opts.Search)
	}
	if opts.Archived != nil {
		query.Set("archived", strconv.FormatBool(*opts.Archived))
	}
	if opts.From != "" {
		query.Set("from", opts.From)
	}
	if opts.To != "" {
		query.Set("to", opts.To)
	}
	if opts.Billable != nil {
		query.Set("billable", strconv.FormatBool(*opts.Billable))
	}
	return query
}

// entryDraft is a validated time-entry creation request. The direct and
// interactive flows both produce one of these; validation happens once, in
// CreateEntry.
type entryDraft struct {
	ProjectID int64
	ServiceID int64
	Minutes   int64
	Date      string
	Note      string
}

// entryTargets fetches project and service candidates concurrently. Both
// fetches must succeed before any resolution proceeds; either failure aborts
// the whole operation before any mutation.
func (a *App) entryTargets(ctx context.Context) (projects, services []Candidate, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := a.client.ListRecords(ctx, EntityProject, nil)
		if err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}
		projects = candidatesFromRecords(records)
		return nil
	})
	g.Go(func() error {
		records, err := a.client.ListRecords(ctx, EntityService, nil)
		if err != nil {
			return fmt.Errorf("fetching services: %w", err)
		}
		services = candidatesFromRecords(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, failureErr(err)
	}
	return projects, services, nil
}

// CreateEntry validates the draft and performs the single mutation.
func (a *App) CreateEntry(ctx context.Context, draft entryDraft) error {
	if draft.Minutes <= 0 {
		return usageErr(fmt.Errorf("minutes must be positive, got %d", draft.Minutes))
	}
	if draft.ProjectID == 0 || draft.ServiceID == 0 {
		return usageErr(fmt.Errorf("both project and service are required"))
	}

	fields := Record{
		"project_id": draft.ProjectID,
		"service_id": draft.ServiceID,
		"minutes":    draft.Minutes,
		"note":       draft.Note,
	}
	if draft.Date != "" {
		fields["date_at"] = draft.Date
	}

	created, err := a.client.CreateRecord(ctx, EntityTimeEntry, fields)
	if err != nil {
		return failureErr(err)
	}

	fmt.Fprintf(a.out, "Created time entry %s (%s on %s)\n",
		created.String("id"), FormatDuration(created.Int("minutes")), created.String("date_at"))
	return nil
}

// SetArchived resolves a name to a single record of the kind and flips its
// archived flag. Resolution failure aborts before any mutation.
func (a *App) SetArchived(ctx context.Context, kind EntityKind, name string, archived bool) error {
	records, err := a.client.ListRecords(ctx, kind, nil)
	if err != nil {
		return failureErr(err)
	}

	target, err := resolveCandidate(candidatesFromRecords(records), name)
	if err != nil {
		return failureErr(err)
	}

	if _, err := a.client.UpdateRecord(ctx, kind, target.ID, Record{"archived": archived}); err != nil {
		return failureErr(err)
	}

	verb := "Archived"
	if !archived {
		verb = "Unarchived"
	}
	fmt.Fprintf(a.out, "%s %s %q\n", verb, kind.singular(), target.Name)
	return nil
}
