package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/drseanwing/trolleys/internal/config"
	"github.com/drseanwing/trolleys/internal/infra/db"
	"github.com/drseanwing/trolleys/internal/usecase"
)

func runSelect(args []string) int {
	fs := flag.NewFlagSet("select", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var count int
	var weekStartStr string
	var generatedBy string
	fs.IntVar(&count, "count", 0, "number of locations to select (default from config)")
	fs.StringVar(&weekStartStr, "week-start", "", "week start date YYYY-MM-DD (default next Monday)")
	fs.StringVar(&generatedBy, "generated-by", "", "name recorded on the batch")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg := config.FromEnv()
	if count <= 0 {
		count = cfg.SelectionBatchSize
	}
	if generatedBy == "" {
		generatedBy = cfg.SelectionIdentifier
	}

	var weekStart *time.Time
	if weekStartStr != "" {
		parsed, err := time.Parse("2006-01-02", weekStartStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --week-start %q: %v\n", weekStartStr, err)
			return 1
		}
		weekStart = &parsed
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	locations := db.NewLocationRepository(store.DB)
	selections := db.NewSelectionRepository(store.DB)
	selector := usecase.NewRandomAuditSelector(locations, selections,
		rand.New(rand.NewSource(time.Now().UnixNano())))

	batch, items, err := selector.GenerateBatch(context.Background(), weekStart, generatedBy, count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate batch: %v\n", err)
		return 1
	}

	fmt.Printf("batch %s for week %s to %s (%d locations)\n",
		batch.ID,
		batch.WeekStart.Format("2006-01-02"),
		batch.WeekEnd.Format("2006-01-02"),
		len(items))
	for _, item := range items {
		days := "never audited"
		if item.DaysSinceAudit != nil {
			days = fmt.Sprintf("%d days since audit", *item.DaysSinceAudit)
		}
		fmt.Printf("  %2d. %-30s %-15s score %4d (%s)\n",
			item.Rank, item.Location, item.ServiceLine, item.PriorityScore, days)
	}
	return 0
}
