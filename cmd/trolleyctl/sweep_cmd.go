package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/drseanwing/trolleys/internal/config"
	"github.com/drseanwing/trolleys/internal/infra/db"
	"github.com/drseanwing/trolleys/internal/logging"
	"github.com/drseanwing/trolleys/internal/usecase"
)

func runSweep(args []string) int {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	issues := db.NewIssueRepository(store.DB)
	workflow := usecase.NewIssueWorkflow(issues)
	sweep := usecase.NewSLASweep(issues, workflow, logger)

	result, err := sweep.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
		return 1
	}

	fmt.Printf("checked %d open issues: %d escalated, %d already escalated\n",
		result.Checked, result.Escalated, result.AlreadyEscalated)
	return 0
}
