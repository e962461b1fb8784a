// Command wasl-import loads intake candidates from a CSV file.
//
//	wasl-import -file intake.csv [-list] [-dry-run] [-rejects rejects.csv]
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"

	"wasl/internal/importer"
	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/service"
	"wasl/internal/lifecycle/store"
	"wasl/internal/platform/config"
	"wasl/internal/platform/logger"
	"wasl/migrations"
	"wasl/pkg/platform/audit/publishers/compliance"
	auditpostgres "wasl/pkg/platform/audit/store/postgres"
)

func main() {
	var (
		file    = flag.String("file", "", "CSV file with cnic,name,phone,district,trade_id,campus_id columns")
		list    = flag.Bool("list", false, "move created candidates to listed")
		dryRun  = flag.Bool("dry-run", false, "validate and deduplicate without writing")
		rejects = flag.String("rejects", "", "write rows that were not created to this CSV file")
	)
	flag.Parse()
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		color.Red("config: %v", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := run(ctx, cfg, log, *file, *list, *dryRun)
	if err != nil {
		color.Red("import failed: %v", err)
		os.Exit(1)
	}
	printReport(os.Stdout, report)

	if *rejects != "" {
		if err := writeRejects(*rejects, report); err != nil {
			color.Red("writing rejects: %v", err)
			os.Exit(1)
		}
		color.Cyan("rejected rows written to %s", *rejects)
	}
	if report.Invalid+report.Failed > 0 {
		os.Exit(3)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger, path string, list, dryRun bool) (*importer.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lifecycleStore lifecycle.Store = store.NewInMemoryStore()
	opts := []service.Option{
		service.WithLogger(log),
		service.WithAttendanceThreshold(cfg.Lifecycle.AttendanceThreshold),
	}
	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if err := migrations.Apply(ctx, db); err != nil {
			return nil, err
		}
		pg := store.NewPostgres(db)
		lifecycleStore = pg
		opts = append(opts,
			service.WithTx(service.NewPostgresTx(db, pg)),
			service.WithAuditPublisher(compliance.New(auditpostgres.New(db), compliance.WithLogger(log))),
		)
	case !dryRun:
		return nil, fmt.Errorf("DATABASE_URL is required unless -dry-run is set")
	}

	engine := lifecycle.NewEngine(lifecycle.WithLogger(log))
	if err := engine.Validate(); err != nil {
		return nil, err
	}
	svc := service.New(lifecycleStore, engine, opts...)

	iopts := []importer.Option{importer.WithLogger(log), importer.WithDryRun(dryRun)}
	if list {
		iopts = append(iopts, importer.WithTarget(string(lifecycle.StatusListed)))
	}
	return importer.New(svc, iopts...).Import(ctx, f)
}

func printReport(w io.Writer, r *importer.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "CNIC", "Outcome", "Application", "Status", "Issues"})
	for _, row := range r.Rows {
		table.Append([]string{
			fmt.Sprint(row.Line), row.NationalID, string(row.Outcome), row.ApplicationID, string(row.Status),
			strings.Join(row.Issues, "; "),
		})
	}
	table.Render()

	color.Green("created %d (listed %d)", r.Created, r.Listed)
	if r.Duplicates > 0 {
		color.Yellow("skipped %d duplicate rows", r.Duplicates)
	}
	if r.Invalid+r.Failed > 0 {
		color.Red("%d invalid, %d failed", r.Invalid, r.Failed)
	}
}

func writeRejects(path string, r *importer.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteRejects(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
