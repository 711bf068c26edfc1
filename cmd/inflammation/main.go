// Command inflammation analyses patient inflammation data files.
//
//	inflammation [--full-data-analysis] [--plot] [--plot-out FILE] [--csv-out FILE] [--config FILE] infile...
//
// The extension of the first infile selects the format and its directory is
// scanned for datasets. Flags may appear before or after the infiles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"inflammation/internal/config"
	"inflammation/internal/datasource"
	"inflammation/internal/exporter"
	"inflammation/internal/infrastructure"
	"inflammation/internal/services"
	"inflammation/internal/table"
	"inflammation/internal/validation"
	"inflammation/pkg/contracts"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultPlotOut = "inflammation-plot.xlsx"
)

type options struct {
	fullDataAnalysis bool
	plot             bool
	plotOut          string
	csvOut           string
	configFile       string
	showVersion      bool
	infiles          []string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the driver and returns the process exit code. Results go to
// stdout; logs and usage go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return exitError
	}

	// components add their own "component" attribute
	logger := infrastructure.NewLogger(cfg.Logging, stderr).With(slog.String("command", "inflammation"))
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := execute(ctx, opts, cfg, stdout, logger); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "inflammation analysis failed")
		return exitError
	}
	return exitOK
}

// parseArgs accepts flags interleaved with the positional infiles
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("inflammation", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.fullDataAnalysis, "full-data-analysis", false, "print the standard deviation of daily means across every dataset")
	fs.BoolVar(&opts.plot, "plot", false, "render the daily average, max and min of every patient as an XLSX line chart")
	fs.StringVar(&opts.plotOut, "plot-out", defaultPlotOut, "workbook written by --plot")
	fs.StringVar(&opts.csvOut, "csv-out", "", "also write the --full-data-analysis result as a CSV report")
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file (default $INFLAMMATION_CONFIG or inflammation.yaml)")
	fs.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inflammation [flags] infile...\n\nA basic patient inflammation data management system.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		opts.infiles = append(opts.infiles, rest[0])
		rest = rest[1:]
	}

	if len(opts.infiles) == 0 && !opts.showVersion {
		fs.Usage()
		return nil, errors.New("at least one infile is required")
	}
	return opts, nil
}

// loadConfig reads the named file, which must exist, or falls back to the
// environment-selected configuration.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return config.LoadFile(path)
}

func execute(ctx context.Context, opts *options, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	if !opts.fullDataAnalysis && !opts.plot {
		logger.InfoContext(ctx, "nothing to do: pass --full-data-analysis and/or --plot")
		return nil
	}

	registry := datasource.DefaultRegistry(cfg.Source, datasource.WithLogger(logger))

	// Unknown extensions fail before anything touches the disk
	if _, err := registry.ForPath(opts.infiles[0]); err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInfiles(opts.infiles); err != nil {
		return err
	}

	svc := services.NewAnalysisService(registry, nil, nil, logger)

	if opts.fullDataAnalysis {
		if opts.csvOut != "" {
			if err := validator.ValidateOutputFile(opts.csvOut); err != nil {
				return err
			}
		}

		result, err := svc.FullAnalysis(ctx, opts.infiles[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, result.StdDevByDay)

		if opts.csvOut != "" {
			report := exporter.NewReportExporter("")
			if err := report.Export(opts.csvOut, []exporter.Column{{Name: "std_dev", Values: table.Vector(result.StdDevByDay)}}); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.csvOut, err)
			}
			logger.InfoContext(ctx, "analysis report written", slog.String("path", opts.csvOut))
		}
	}

	if opts.plot {
		if err := validator.ValidateOutputFile(opts.plotOut); err != nil {
			return err
		}

		summary, patients, err := svc.PlotSummary(ctx, opts.infiles[0])
		if err != nil {
			return err
		}

		chart := exporter.NewChartExporter("")
		if err := chart.Export(opts.plotOut, exporter.SummaryColumns(summary)); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.plotOut, err)
		}
		logger.InfoContext(ctx, "plot written",
			slog.String("path", opts.plotOut),
			slog.Int("patients", patients),
			slog.Int("days", summary.Days()))
	}

	return nil
}
