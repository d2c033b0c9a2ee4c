package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nexidian/gocliselect"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func SetupCommands(a *App) *cobra.Command {
	var debug bool

	// root command
	rootCmd := &cobra.Command{
		Use:           "timetally",
		Short:         "A CLI client for the timetally time-tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				a.LogLevel.SetLevel(zapcore.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.NoColor, "no-color", false, "Disable output styling")

	// list commands, one per entity kind
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
	}
	listCmd.AddCommand(newListCommand(a, "customers", EntityCustomer))
	listCmd.AddCommand(newListCommand(a, "services", EntityService))
	listCmd.AddCommand(newListCommand(a, "projects", EntityProject))
	listCmd.AddCommand(newListCommand(a, "entries", EntityTimeEntry))

	// add commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(newEntryCommand(a))
	rootCmd.AddCommand(newArchiveCommand(a, true))
	rootCmd.AddCommand(newArchiveCommand(a, false))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// newListCommand builds one fetch-and-render command. Flag validation that
// needs no records (sort key, format, columns) happens before any fetch.
func newListCommand(a *App, use string, kind EntityKind) *cobra.Command {
	var opts listOptions
	var archived, billable string

	catalog := catalogFor(kind)

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("List %s", use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Archived = parseTriState(archived)
			opts.Billable = parseTriState(billable)

			if opts.From != "" {
				day, err := parseDay(opts.From)
				if err != nil {
					return usageErr(err)
				}
				opts.From = day
			}
			if opts.To != "" {
				day, err := parseDay(opts.To)
				if err != nil {
					return usageErr(err)
				}
				opts.To = day
			}

			return a.ListEntities(cmd.Context(), kind, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Columns, "columns", "",
		fmt.Sprintf("Comma-separated columns (%s)", strings.Join(catalog.ColumnNames(), ", ")))
	cmd.Flags().StringVar(&opts.Sort, "sort", "",
		fmt.Sprintf("Sort key (%s)", strings.Join(catalog.SortKeyNames(), ", ")))
	cmd.Flags().StringVar(&opts.Format, "format", FormatTable, "Output format (table, csv, json)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Keep records whose name contains this text")
	cmd.Flags().StringVar(&archived, "archived", "", "Filter on the archived flag (true/false)")

	cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatCSV, FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.SortKeyNames(), cobra.ShellCompDirectiveNoFileComp
	})

	if kind == EntityTimeEntry {
		cmd.Flags().StringVar(&opts.From, "from", "", "Only entries on or after this day (YYYY-MM-DD)")
		cmd.Flags().StringVar(&opts.To, "to", "", "Only entries on or before this day (YYYY-MM-DD)")
		cmd.Flags().StringVar(&billable, "billable", "", "Filter on the billable flag (true/false)")
	}

	return cmd
}

// newEntryCommand creates a time entry. With --project and --service the
// names are resolved directly; without them an interactive menu offers the
// same candidate lists. Both paths feed the same draft into CreateEntry.
func newEntryCommand(a *App) *cobra.Command {
	var (
		project string
		service string
		minutes int64
		date    string
		note    string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if date != "" {
				day, err := parseDay(date)
				if err != nil {
					return usageErr(err)
				}
				date = day
			}

			projects, services, err := a.entryTargets(ctx)
			if err != nil {
				return err
			}

			projectCand, err := pickCandidate(projects, project, "Choose a project")
			if err != nil {
				return err
			}
			serviceCand, err := pickCandidate(services, service, "Choose a service")
			if err != nil {
				return err
			}

			return a.CreateEntry(ctx, entryDraft{
				ProjectID: projectCand.ID,
				ServiceID: serviceCand.ID,
				Minutes:   minutes,
				Date:      date,
				Note:      note,
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name (or part of it)")
	cmd.Flags().StringVar(&service, "service", "", "Service name (or part of it)")
	cmd.Flags().Int64Var(&minutes, "minutes", 0, "Tracked minutes")
	cmd.Flags().StringVar(&date, "date", "", "Entry day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&note, "note", "", "Entry note")
	cmd.MarkFlagRequired("minutes")

	return cmd
}

// pickCandidate resolves a query against the candidates, or falls back to an
// interactive menu when no query was given.
func pickCandidate(candidates []Candidate, query, title string) (Candidate, error) {
	if query != "" {
		cand, err := resolveCandidate(candidates, query)
		if err != nil {
			return Candidate{}, failureErr(err)
		}
		return cand, nil
	}
	return chooseCandidate(title, candidates)
}

// chooseCandidate shows an interactive menu over the candidates.
func chooseCandidate(title string, candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, failureErr(errors.New("nothing to choose from"))
	}

	menu := gocliselect.NewMenu(title)
	for _, cand := range candidates {
		menu.AddItem(cand.Name, strconv.FormatInt(cand.ID, 10))
	}

	choiceVal, err := menu.Display()
	if err != nil {
		return Candidate{}, failureErr(err)
	}
	choice, _ := choiceVal.(string)
	if choice == "" {
		return Candidate{}, failureErr(errors.New("selection aborted"))
	}

	id, err := strconv.ParseInt(choice, 10, 64)
	if err != nil {
		return Candidate{}, failureErr(fmt.Errorf("unexpected selection %q", choice))
	}
	for _, cand := range candidates {
		if cand.ID == id {
			return cand, nil
		}
	}
	return Candidate{}, failureErr(fmt.Errorf("unexpected selection %q", choice))
}

// newArchiveCommand flips the archived flag on a customer, service or
// project found by name.
func newArchiveCommand(a *App, archived bool) *cobra.Command {
	use, short := "archive", "Archive a customer, service or project by name"
	if !archived {
		use, short = "unarchive", "Unarchive a customer, service or project by name"
	}

	cmd := &cobra.Command{
		Use:   use + " [customer|service|project] [name]",
		Short: short,
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return []string{"customer", "service", "project"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFromArg(args[0])
			if err != nil {
				return usageErr(err)
			}
			return a.SetArchived(cmd.Context(), kind, args[1], archived)
		},
	}

	return cmd
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if err := WriteDefaultConfig(path); err != nil {
				return failureErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	return configCmd
}

func kindFromArg(arg string) (EntityKind, error) {
	switch arg {
	case "customer", "customers":
		return EntityCustomer, nil
	case "service", "services":
		return EntityService, nil
	case "project", "projects":
		return EntityProject, nil
	}
	return "", fmt.Errorf("unknown entity %q, expected customer, service or project", arg)
}
