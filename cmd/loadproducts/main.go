package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/davidnier/storefront-backend/internal/catalog"
	"github.com/davidnier/storefront-backend/pkg/config"
	"github.com/davidnier/storefront-backend/pkg/db"
	"github.com/davidnier/storefront-backend/pkg/logger"
)

// loadproducts bulk loads the catalog from a CSV export. The whole file is
// applied in one transaction, so a bad row aborts the run without writes.
func main() {
	logg := logger.New(logger.Options{ServiceName: "loadproducts"})

	_ = godotenv.Load()

	file := flag.String("file", "", "path to the products CSV file")
	upsert := flag.Bool("upsert", false, "update existing products matched by name and department")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "loadproducts",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"file":   *file,
		"upsert": *upsert,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	importer, err := catalog.NewImporter(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create importer", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logg.Error(ctx, "failed to open csv file", err)
		os.Exit(1)
	}
	defer f.Close()

	summary, err := importer.LoadCSV(ctx, f, catalog.ImportOptions{Upsert: *upsert})
	if err != nil {
		logg.Error(ctx, "import failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"created": summary.Created,
		"updated": summary.Updated,
	})
	logg.Info(ctx, "catalog import complete")
	fmt.Printf("created %d products, updated %d\n", summary.Created, summary.Updated)
}
