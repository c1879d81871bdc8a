package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/excel"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/postgres"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/report"
	"github.com/liqinglq666/ECC-Analyzer-Pro/app"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal/config"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "ecc-cli",
		Short: "ECC constitutive analysis from stress-strain workbooks",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newFingerprintCmd(),
		newPruneCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var mode string
	var outDir string
	var emitJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [input-file]",
		Short: "Analyze every specimen in a workbook and write the result bundle",
		Long: `Analyze loads a .xlsx or .csv workbook, runs the full constitutive
pipeline on every specimen found and writes results.xlsx, report.md and
report.pdf into the output directory.

Example: ecc-cli analyze tensile_batch.xlsx --mode tensile --out ./results`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], mech.LoadingMode(mode), outDir, emitJSON)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(mech.ModeTensile), "loading mode: tensile or compressive")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().BoolVar(&emitJSON, "json", false, "also print the batch report as JSON to stdout")

	return cmd
}

func runAnalyze(ctx context.Context, inputPath string, mode mech.LoadingMode, outDir string, emitJSON bool) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := internal.DefaultLogger

	samples, err := excel.NewLoader(inputPath).Load(ctx, mode)
	if err != nil {
		return fmt.Errorf("loading %s: %w", inputPath, err)
	}
	log.Info("loaded %d samples from %s", len(samples), inputPath)

	runner := app.NewBatchRunner(app.NewAnalysisService(log), log)
	batch, err := runner.Run(ctx, samples, cfg.Analysis, mode)
	if err != nil {
		return err
	}
	if n := batch.FailureCount(); n > 0 {
		log.Warn("%d of %d samples failed analysis", n, len(batch.Samples))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := excel.NewExporter().Export(batch, filepath.Join(outDir, "results.xlsx")); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	renderer := report.NewRenderer()
	if err := os.WriteFile(filepath.Join(outDir, "report.md"), []byte(renderer.Markdown(batch)), 0o644); err != nil {
		return err
	}
	pdfBytes, err := renderer.PDF(batch)
	if err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "report.pdf"), pdfBytes, 0o644); err != nil {
		return err
	}
	log.Info("wrote results.xlsx, report.md and report.pdf to %s", outDir)

	if emitJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	}
	return nil
}

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of the current analysis configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println(cfg.Analysis.Fingerprint())
			return nil
		},
	}
}

func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete archived batches computed under superseded configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Database.URL) == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			db, err := sqlx.Connect("postgres", cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := postgres.EnsureSchema(ctx, db); err != nil {
				return err
			}
			n, err := postgres.NewBatchRepository(db).DeleteStale(ctx, cfg.Analysis.Fingerprint())
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d stale batches\n", n)
			return nil
		},
	}
}
