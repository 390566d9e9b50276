package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"hoursreport/internal/config"
	"hoursreport/internal/dataprocessing"
	"hoursreport/internal/exporter"
	"hoursreport/internal/infrastructure"
	"hoursreport/internal/validation"
)

type loggerKey struct{}

// buildOptions are the flags of the build command
type buildOptions struct {
	In        string
	Out       string
	Format    string
	Threshold float64
	Highlight bool
	Search    string
	Print     bool
}

func newCommand(out io.Writer) *cli.Command {
	var logLevel string

	return &cli.Command{
		Name:    "pivotreport",
		Usage:   "Pivot employee hours by job, employee and check date",
		Version: config.AppVersion,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "warn",
				Sources:     cli.EnvVars(config.EnvPrefix + "_LOGGING_LEVEL"),
				Destination: &logLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := infrastructure.NewLogger(config.LoggingConfig{
				Level:  logLevel,
				Format: "text",
				Output: "stderr",
			})
			if err != nil {
				return ctx, err
			}
			logger = infrastructure.WithComponent(logger, "pivotreport")
			return context.WithValue(ctx, loggerKey{}, logger), nil
		},
		Commands: []*cli.Command{
			cmdBuild(out),
		},
	}
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return infrastructure.LoggerWithContext(ctx)
}

func cmdBuild(out io.Writer) *cli.Command {
	var opts buildOptions

	return &cli.Command{
		Name:  "build",
		Usage: "Read an hours file and write the pivot report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "in",
				Aliases:     []string{"i"},
				Usage:       "CSV or XLSX time-tracking export",
				Required:    true,
				Destination: &opts.In,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "Report file to write (default Employee_Hours_Report.<format>)",
				Destination: &opts.Out,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Export format: xlsx or csv (default from --out, else xlsx)",
				Destination: &opts.Format,
			},
			&cli.FloatFlag{
				Name:        "threshold",
				Aliases:     []string{"t"},
				Usage:       fmt.Sprintf("Hours threshold, clamped to [%v, %v]", config.MinThreshold, config.MaxThreshold),
				Value:       config.DefaultThreshold,
				Destination: &opts.Threshold,
			},
			&cli.BoolFlag{
				Name:        "highlight",
				Usage:       "Mark cells at or above the threshold in the XLSX export",
				Destination: &opts.Highlight,
			},
			&cli.StringFlag{
				Name:        "search",
				Usage:       "Only print job descriptions containing this text",
				Destination: &opts.Search,
			},
			&cli.BoolFlag{
				Name:        "print",
				Aliases:     []string{"p"},
				Usage:       "Print the pivot to the terminal",
				Destination: &opts.Print,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runBuild(ctx, loggerFrom(ctx), out, opts)
		},
	}
}

// resolveOutput picks the export format and output path from whichever of the two was given
func resolveOutput(opts buildOptions) (format, path string) {
	format = strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Out)), ".")
		if format != exporter.FormatCSV {
			format = exporter.FormatXLSX
		}
	}

	path = opts.Out
	if path == "" {
		path = config.DefaultExportFileName + "." + format
	}
	return format, path
}

func runBuild(ctx context.Context, logger *slog.Logger, out io.Writer, opts buildOptions) error {
	format, path := resolveOutput(opts)

	e, err := exporter.New(format, config.DefaultSheetName)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger, config.DefaultMaxUploadBytes)
	if err := validator.ValidateInputFile(opts.In); err != nil {
		return err
	}
	if err := validator.ValidateOutputPath(path, format); err != nil {
		return err
	}

	file, err := os.Open(opts.In)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	dataset, err := dataprocessing.ParseFile(opts.In, file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.In, err)
	}
	for _, w := range dataset.Warnings {
		logger.WarnContext(ctx, "non-numeric hours counted as 0",
			slog.Int("row", w.Row),
			slog.String("field", w.Field),
			slog.String("value", w.Value))
	}

	result := dataprocessing.NewProcessor(logger).Build(dataset.Records)
	threshold := dataprocessing.ClampThreshold(opts.Threshold)

	if err := exporter.WriteFile(path, e, exporter.NewSheet(result, threshold, opts.Highlight)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.InfoContext(ctx, "report written",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("records", result.Records))

	if opts.Print {
		view := result.Table(dataprocessing.TableOptions{
			Threshold: threshold,
			Highlight: true,
			Search:    strings.TrimSpace(opts.Search),
		})
		if _, err := io.WriteString(out, renderTable(view)); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "Wrote %s (%d records, %d jobs, %d warnings)\n",
		path, result.Records, result.Pivot.Len(), len(dataset.Warnings))
	return err
}
