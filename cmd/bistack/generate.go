package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-bi-stack/internal/generator"
	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic dataset file",
		Long: `Generate records for one source system and write them as CSV, JSON or Parquet.

Without --out the file goes to the configured storage under its generated
name. The seed is printed so the same batch can be produced again.

Examples:
  # 500-1000 Salesforce accounts for 2023 as CSV
  bistack generate --system salesforce --start 2023-01-01 --end 2023-12-31

  # Reproducible NetSuite transactions straight to a file
  bistack generate --system netsuite --format parquet --seed 42 --out rawdata/netsuite.parquet`,
		RunE: runGenerate,
	}

	cmd.Flags().String("system", "salesforce", "source system (salesforce, salesforce_opportunities, sfmc, netsuite)")
	cmd.Flags().String("start", "", "window start (YYYY-MM-DD, default one year ago)")
	cmd.Flags().String("end", "", "window end (YYYY-MM-DD, default today)")
	cmd.Flags().Int("min", 500, "minimum records")
	cmd.Flags().Int("max", 1000, "maximum records")
	cmd.Flags().String("format", "", "output format (csv, json, parquet; default from --out or csv)")
	cmd.Flags().Uint64("seed", 0, "random seed (0 draws a fresh one)")
	cmd.Flags().String("out", "", "write to this path instead of the configured storage")
	cmd.Flags().Bool("quiet", false, "hide the progress bar")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Parse flags
	system, _ := cmd.Flags().GetString("system")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	minRecords, _ := cmd.Flags().GetInt("min")
	maxRecords, _ := cmd.Flags().GetInt("max")
	formatStr, _ := cmd.Flags().GetString("format")
	seed, _ := cmd.Flags().GetUint64("seed")
	out, _ := cmd.Flags().GetString("out")
	quiet, _ := cmd.Flags().GetBool("quiet")

	now := time.Now()
	if startStr == "" {
		startStr = now.AddDate(-1, 0, 0).Format(model.DateLayout)
	}
	if endStr == "" {
		endStr = now.Format(model.DateLayout)
	}
	if formatStr == "" {
		formatStr = string(pipeline.FormatCSV)
		if out != "" {
			if f, err := pipeline.FormatFromPath(out); err == nil {
				formatStr = string(f)
			}
		}
	}
	format, err := pipeline.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	req, err := model.GenerateRequestBody{
		System:     system,
		StartDate:  startStr,
		EndDate:    endStr,
		MinRecords: minRecords,
		MaxRecords: maxRecords,
		Format:     string(format),
		Seed:       seed,
	}.ToRequest()
	if err != nil {
		return err
	}

	comp, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	opts := generator.Options{}
	if !quiet {
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowCount(),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionThrottle(65*time.Millisecond),
					progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Generating %s...[reset]", req.Kind)),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionOnCompletion(func() {
						fmt.Fprintln(cmd.ErrOrStderr())
					}),
				)
			}
			_ = bar.Set(done)
		}
	}

	start := time.Now()
	batch, err := comp.factory.Generate(ctx, req, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	w := cmd.OutOrStdout()
	if out != "" {
		if err := writeFile(out, batch.Records, format); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %d %s records to %s (seed %d, %v)\n",
			batch.Len(), req.Kind, out, batch.Seed, time.Since(start).Round(time.Millisecond))
		return nil
	}

	res, err := comp.exports.Export(ctx, req.Kind.System(), batch.Records, format, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %d %s records to %s (seed %d, %v)\n",
		res.RecordCount, req.Kind, res.Filename, batch.Seed, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(w, "download: %s\n", res.DownloadURL)
	return nil
}

func writeFile(path string, records []*model.Record, format pipeline.Format) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()
	return pipeline.Write(f, records, format)
}
