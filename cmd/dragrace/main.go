// Command dragrace is the Drag Race Manager admin CLI. It works on the
// snapshots stored in the configured database.
//
// Usage:
//
//	dragrace migrate
//	dragrace roster import --file drivers.xlsx
//	dragrace snapshot export --out tournament.json
//	dragrace snapshot import --file tournament.json
//	dragrace results export --format xlsx --out results.xlsx
//	dragrace rankings --division OPEN
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Johane03/Drag-Race-Manager/internal/config"
	"github.com/Johane03/Drag-Race-Manager/internal/db"
	"github.com/Johane03/Drag-Race-Manager/internal/export"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "dragrace",
		Short:        "Drag Race Manager admin CLI",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(rosterCmd())
	root.AddCommand(snapshotCmd())
	root.AddCommand(resultsCmd())
	root.AddCommand(rankingsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Connect and create the snapshot table if missing",
		Long: "Every command that connects creates the snapshot table on the way in, " +
			"so migrate is only a connection check that leaves the schema in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error {
				logger.Info("Schema ready", "table", config.SnapshotsTable)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// roster command
// --------------------------------------------------------------------------

func rosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Driver rosters",
	}
	cmd.AddCommand(rosterImportCmd())
	return cmd
}

func rosterImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Start a new tournament from an Excel roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error {
				snap, err := export.ParseRoster(f, cfg.Divisions)
				if err != nil {
					return err
				}
				return saveSnapshot(ctx, cfg, st, store.LabelRosterImport, snap)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Excel workbook (.xlsx)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// snapshot command
// --------------------------------------------------------------------------

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import tournament snapshots",
	}
	cmd.AddCommand(snapshotExportCmd())
	cmd.AddCommand(snapshotImportCmd())
	return cmd
}

func snapshotExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the latest snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error {
				snap, rec, err := st.Latest(ctx)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("encode snapshot: %w", err)
				}
				if err := writeOutput(out, cmd.OutOrStdout(), append(data, '\n')); err != nil {
					return err
				}
				logger.Info("Snapshot exported", "id", rec.ID, "saved_at", rec.SavedAt, "drivers", rec.Drivers)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func snapshotImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a JSON snapshot as the latest tournament state",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			snap, err := tournament.ParseSnapshot(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error {
				return saveSnapshot(ctx, cfg, st, store.LabelCLIImport, snap)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Snapshot JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// results command
// --------------------------------------------------------------------------

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Tournament results",
	}
	cmd.AddCommand(resultsExportCmd())
	return cmd
}

func resultsExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export results of the latest snapshot as CSV or Excel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("--format must be csv or xlsx, got %q", format)
			}
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error {
				m, err := latestManager(ctx, cfg, st)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if format == "csv" {
					err = export.WriteCSV(&buf, m.Drivers())
				} else {
					err = export.WriteExcel(&buf, m.Drivers())
				}
				if err != nil {
					return err
				}
				if out == "" {
					out = export.FileName(cfg.TournamentName, time.Now(), format)
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return err
				}
				logger.Info("Results exported", "file", out, "drivers", len(m.Drivers()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv, xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default \"<name> Results <date>.<format>\")")
	return cmd
}

// --------------------------------------------------------------------------
// rankings command
// --------------------------------------------------------------------------

func rankingsCmd() *cobra.Command {
	var division string
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Print the standings of the latest snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error {
				m, err := latestManager(ctx, cfg, st)
				if err != nil {
					return err
				}
				return printRankings(cmd.OutOrStdout(), m.Rankings(division))
			})
		},
	}
	cmd.Flags().StringVar(&division, "division", "", "Only this division")
	return cmd
}

func printRankings(w io.Writer, rankings []tournament.Ranking) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tNAME\tDIVISION\tW\tL\tRACES\tRATIO\tSTATUS")
	for _, r := range rankings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.Position, r.Name, r.Division, r.Wins, r.Losses, r.TotalRaces,
			export.FormatRatio(r.WinRatio), r.Status)
	}
	return tw.Flush()
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runDB handles config loading, DB connection, and context cancellation.
func runDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool, st *store.Snapshots) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasDatabase() {
		return errors.New("DATABASE_URL is required")
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool, store.New(pool.Pool))
}

// latestManager loads the latest snapshot into a fresh manager. An empty
// database gives an empty tournament.
func latestManager(ctx context.Context, cfg *config.Config, st *store.Snapshots) (*tournament.Manager, error) {
	m := tournament.NewManager(cfg.Divisions)
	snap, _, err := st.Latest(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if err := m.Import(snap); err != nil {
		return nil, err
	}
	return m, nil
}

// saveSnapshot checks snap loads into a manager, then stores it. Running API
// servers are notified and load it.
func saveSnapshot(ctx context.Context, cfg *config.Config, st *store.Snapshots, label string, snap tournament.Snapshot) error {
	m := tournament.NewManager(cfg.Divisions)
	if err := m.Import(snap); err != nil {
		return err
	}
	rec, err := st.Save(ctx, label, m.Export())
	if err != nil {
		return err
	}
	logger.Info("Snapshot stored", "id", rec.ID, "label", label, "drivers", rec.Drivers, "race_counter", rec.RaceCounter)
	return nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
