// financas-export writes a monthly or consolidated report for one user
// without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"financas/internal/cli"
	"financas/internal/core"
	"financas/internal/export"
	"financas/internal/report"
)

func main() {
	var (
		userID = flag.Int64("user", 0, "user id to export (required)")
		month  = flag.String("month", "", "month anchor, 2006-01 or 2006-01-02 (default current month)")
		months = flag.Int("months", 0, "export a consolidated report over the trailing N months instead")
		out    = flag.String("out", "", "output file (default derived from month, inside EXPORT_DIR)")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger("financas-export")
	cfg := cli.LoadAndValidateConfig(logger)

	if *userID < 1 {
		fmt.Fprintln(os.Stderr, "usage: financas-export -user <id> [-month 2006-01] [-months N] [-out file.csv]")
		os.Exit(2)
	}

	anchor, err := parseAnchor(*month)
	if err != nil {
		logger.Error("Invalid month", "month", *month, "error", err)
		os.Exit(2)
	}
	if *months < 0 || *months > 24 {
		logger.Error("Months must be between 1 and 24", "months", *months)
		os.Exit(2)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	exporter := export.NewExporter(repo, report.NewService(repo), export.Format{
		Prefix:       cfg.CurrencyPrefix,
		DecimalSep:   cfg.DecimalSep,
		ThousandsSep: cfg.ThousandsSep,
	})

	ctx := context.Background()
	var path string
	if *months > 0 {
		dest := destination(cfg.ExportDir, *out, fmt.Sprintf("report-range-%s.csv", anchor.Format("2006-01")))
		path, err = exporter.ExportRange(ctx, *userID, core.TrailingMonths(anchor, *months), dest)
	} else {
		dest := destination(cfg.ExportDir, *out, fmt.Sprintf("report-%s.csv", anchor.Format("2006-01")))
		path, err = exporter.ExportMonth(ctx, *userID, anchor, dest)
	}
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(path)
}

func parseAnchor(v string) (core.Date, error) {
	if v == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), 1), nil
	}
	if len(v) == len("2006-01") {
		v += "-01"
	}
	return core.ParseDate(v)
}

func destination(exportDir, out, fallback string) string {
	if out == "" {
		return filepath.Join(exportDir, fallback)
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(exportDir, out)
}
