// Command wasl-report prints the candidate status distribution and batch
// fill levels from the lifecycle database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"wasl/internal/batch"
	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/store"
	"wasl/internal/platform/config"
)

func main() {
	section := flag.String("section", "all", "what to print: status, batches or all")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		color.Red("config: %v", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		color.Red("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg.DatabaseURL, *section, os.Stdout); err != nil {
		color.Red("report failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, section string, w io.Writer) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	st := store.NewPostgres(db)

	if section == "all" || section == "status" {
		counts, err := st.CountByStatus(ctx)
		if err != nil {
			return err
		}
		color.New(color.FgYellow).Fprintln(w, "\nCandidates by Status")
		renderStatus(w, counts)
	}
	if section == "all" || section == "batches" {
		batches, err := st.ListBatches(ctx)
		if err != nil {
			return err
		}
		color.New(color.FgYellow).Fprintln(w, "\nBatch Fill")
		renderBatches(w, batches)
	}
	return nil
}

// renderStatus lists every status in lifecycle order, including empty ones.
func renderStatus(w io.Writer, counts map[lifecycle.Status]int) {
	total := 0
	for _, n := range counts {
		total += n
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Candidates", "Share"})
	for _, st := range lifecycle.Statuses {
		table.Append([]string{string(st), fmt.Sprint(counts[st]), share(counts[st], total)})
	}
	table.SetFooter([]string{"Total", fmt.Sprint(total), ""})
	table.Render()
}

// renderBatches shows enrollment against capacity for each batch.
func renderBatches(w io.Writer, batches []batch.Batch) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Batch", "Enrolled", "Capacity", "Available", "Fill"})
	for _, b := range batches {
		table.Append([]string{
			b.Code,
			fmt.Sprint(b.EnrollmentCount),
			fmt.Sprint(b.Capacity),
			fmt.Sprint(b.Available()),
			share(b.EnrollmentCount, b.Capacity),
		})
	}
	table.Render()
}

func share(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	pct := decimal.NewFromInt(int64(part)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(whole)))
	return pct.Round(1).String() + "%"
}
