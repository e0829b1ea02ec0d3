package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/npytool/internal/dataset"
	"github.com/samcharles93/npytool/internal/export"
	"github.com/samcharles93/npytool/internal/logger"
	"github.com/samcharles93/npytool/internal/source"
)

func exportCmd() *cli.Command {
	var (
		outputFile   string
		outputFormat string
	)

	return &cli.Command{
		Name:      "export",
		Usage:     "Decode .npy files and write them as datasets of one output file",
		ArgsUsage: "<file.npy|glob>...",
		Flags: append(decodeFlags(0),
			&cli.StringFlag{
				Name:        "output-file",
				Aliases:     []string{"o"},
				Usage:       "output file (.h5, .json, .msgpack); omit to only validate",
				Destination: &outputFile,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (hdf5, json, msgpack); defaults to the output extension",
				Destination: &outputFormat,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			dec := applyDecodeConfig(cmd, cfg)
			applyExportConfig(cmd, cfg, &outputFile, &outputFormat)

			if cmd.Args().Len() == 0 {
				return cli.Exit("error: no input files", 1)
			}
			inputs, err := source.Expand(cmd.Args().Slice())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			opts := export.Options{
				Inputs:  inputs,
				Decoder: dec,
				RunID:   export.NewRunID(),
			}
			var store dataset.Store
			if outputFile != "" {
				format, err := dataset.FormatFor(outputFile, outputFormat)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				store, err = dataset.Create(outputFile, format, dataset.Meta{
					RunID:     opts.RunID,
					CreatedAt: time.Now().UTC(),
				})
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create output: %v", err), 1)
				}
				opts.Sink = store
				log.Info("writing datasets", "output", outputFile, "format", format, "inputs", len(inputs))
			}

			rep, runErr := export.Run(ctx, opts)
			if store != nil {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, fmt.Errorf("close output: %w", err))
				}
			}
			printReport(os.Stdout, rep)
			if runErr != nil {
				return cli.Exit(fmt.Sprintf("error: %v", runErr), 1)
			}
			return nil
		},
	}
}

func printReport(w io.Writer, rep *export.Report) {
	if rep == nil {
		return
	}
	for _, f := range rep.Files {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%dx%d\tmin=%g max=%g mean=%g\n",
			f.Path, f.Dataset, f.Shape[0], f.Shape[1], f.Min, f.Max, f.Mean)
	}
	for _, p := range rep.Skipped {
		_, _ = fmt.Fprintf(w, "%s\tskipped\n", p)
	}
}
