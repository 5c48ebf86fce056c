package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/drseanwing/trolleys/internal/config"
	"github.com/drseanwing/trolleys/internal/infra/db"
)

func run(args []string) int {
	if len(args) < 2 {
		usage(args)
		return 1
	}

	switch args[1] {
	case "sweep":
		return runSweep(args[2:])
	case "select":
		return runSelect(args[2:])
	}

	usage(args)
	return 1
}

func usage(args []string) {
	name := "trolleyctl"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s sweep\n", name)
	fmt.Fprintf(os.Stderr, "  %s select [--count <n>] [--week-start <YYYY-MM-DD>] [--generated-by <name>]\n", name)
}

func openStore(cfg config.Config) (*db.Store, error) {
	store, err := db.NewStore(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := store.AutoMigrate(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}
