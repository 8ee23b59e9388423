package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fidash/internal/config"
	"fidash/internal/dataset"
	"fidash/internal/exporter"
	"fidash/internal/infrastructure"
	"fidash/internal/services"
	"fidash/pkg/contracts/domain"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	dataDir string
	verbose bool
}

// env is what a command needs once configuration has been resolved
type env struct {
	cfg       *config.Config
	dashboard *services.DashboardService
	exports   *services.ExportService
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fictl",
		Short:         "Inspect and export the Ethiopia financial inclusion dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the processed tables (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newSummaryCmd(opts), newTrendsCmd(opts), newExportCmd(opts))
	return root
}

// open loads configuration and builds the services. The dataset itself is
// read by the first service call.
func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}

	logCfg := cfg.Logging
	logCfg.Format = "text"
	logCfg.Level = "warn"
	if o.verbose {
		logCfg.Level = "debug"
	}
	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), logCfg)

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		paths.LogPathResolution(logger)
	}

	store := dataset.NewStore(dataset.NewLoader(dataset.Files{
		Unified:  paths.UnifiedFile,
		Forecast: paths.ForecastFile,
		Impact:   paths.ImpactFile,
	}, logger, nil))

	return &env{
		cfg:       cfg,
		dashboard: services.NewDashboardService(store, cfg.Dashboard, nil, logger),
		exports: services.NewExportService(store, services.TrendsQuery{
			Pillars: domain.AllPillars,
			From:    cfg.Dashboard.DefaultFrom,
			To:      cfg.Dashboard.DefaultTo,
		}, nil, logger),
	}, nil
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print what the loader found in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			summary, err := e.dashboard.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}
}

func printSummary(out io.Writer, s *services.DataSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "records\t%d\n", s.Load.Total)
	fmt.Fprintf(w, "observations\t%d\n", s.Load.Observations)
	fmt.Fprintf(w, "events\t%d\n", s.Load.Events)
	fmt.Fprintf(w, "other\t%d\n", s.Load.Other)
	fmt.Fprintf(w, "undated\t%d\n", s.Load.Undated)
	fmt.Fprintf(w, "years\t%s\n", s.TemporalRange())

	pillars := make([]string, len(s.Pillars))
	for i, p := range s.Pillars {
		pillars[i] = string(p)
	}
	fmt.Fprintf(w, "pillars\t%s\n", strings.Join(pillars, ", "))

	for _, tc := range s.RecordTypes {
		fmt.Fprintf(w, "type %s\t%d\n", tc.RecordType, tc.Count)
	}
	for _, ev := range s.RecentEvents {
		fmt.Fprintf(w, "event %d\t%s\n", ev.Year, ev.Indicator)
	}
	return w.Flush()
}

func newTrendsCmd(opts *rootOptions) *cobra.Command {
	var (
		pillars  []string
		from, to int
	)
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Print the yearly indicator aggregate as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			q, err := trendsQuery(e.cfg.Dashboard, pillars, from, to, cmd.Flags().Changed("from"), cmd.Flags().Changed("to"))
			if err != nil {
				return err
			}

			file, err := e.exports.Export(cmd.Context(), services.ExportRequest{
				Table:  exporter.TableTrends,
				Format: services.FormatCSV,
				Filter: &q,
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(file.Data)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&pillars, "pillar", []string{string(domain.PillarAccess), string(domain.PillarUsage)}, "pillars to include")
	cmd.Flags().IntVar(&from, "from", 0, "first year (default from config)")
	cmd.Flags().IntVar(&to, "to", 0, "last year (default from config)")
	return cmd
}

func trendsQuery(defaults config.DashboardConfig, pillars []string, from, to int, fromSet, toSet bool) (services.TrendsQuery, error) {
	q := services.TrendsQuery{From: defaults.DefaultFrom, To: defaults.DefaultTo}
	if fromSet {
		q.From = from
	}
	if toSet {
		q.To = to
	}
	if q.From > q.To {
		return q, fmt.Errorf("--from %d is after --to %d", q.From, q.To)
	}

	for _, name := range pillars {
		p := domain.Pillar(strings.ToUpper(strings.TrimSpace(name)))
		if !p.Valid() {
			return q, fmt.Errorf("unknown pillar %q", name)
		}
		q.Pillars = append(q.Pillars, p)
	}
	return q, nil
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var table, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a table to a CSV or Excel file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return export(cmd.Context(), cmd.OutOrStdout(), e.exports, table, strings.ToLower(format), out)
		},
	}
	cmd.Flags().StringVar(&table, "table", exporter.TableObservations, "observations, forecast, impact, trends or all")
	cmd.Flags().StringVar(&format, "format", services.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default is the download name)")
	return cmd
}

func export(ctx context.Context, w io.Writer, exports *services.ExportService, table, format, out string) error {
	file, err := exports.Export(ctx, services.ExportRequest{Table: table, Format: format})
	if err != nil {
		return err
	}
	if out == "" {
		out = file.Name
	}
	if err := os.WriteFile(out, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(w, "wrote %s (%d bytes)\n", out, len(file.Data))
	return nil
}
