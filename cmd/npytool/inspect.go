package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/npytool/internal/inspect"
	"github.com/samcharles93/npytool/internal/source"
)

func inspectCmd() *cli.Command {
	var (
		asJSON  bool
		workers int
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print .npy headers without decoding payloads",
		ArgsUsage: "<file.npy|glob>...",
		Flags: append(decodeFlags(0),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print results as JSON",
				Destination: &asJSON,
			},
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"j"},
				Usage:       "files read concurrently (0 = GOMAXPROCS)",
				Destination: &workers,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dec := applyDecodeConfig(cmd, cfg)
			applyInspectConfig(cmd, cfg, &workers)

			if cmd.Args().Len() == 0 {
				return cli.Exit("error: no input files", 1)
			}
			inputs, err := source.Expand(cmd.Args().Slice())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			results, err := inspect.Run(ctx, inspect.Options{Inputs: inputs, Decoder: dec, Workers: workers})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if asJSON {
				err = printResultsJSON(os.Stdout, results)
			} else {
				err = printResults(os.Stdout, results)
			}
			if err != nil {
				return err
			}
			if n := inspect.Failed(results); n > 0 {
				return cli.Exit(fmt.Sprintf("error: %d of %d files failed", n, len(results)), 1)
			}
			return nil
		},
	}
}

func printResults(w io.Writer, results []inspect.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FILE\tVERSION\tTYPE\tENDIAN\tORDER\tSHAPE\tOFFSET")
	for _, r := range results {
		if r.Err != nil {
			_, _ = fmt.Fprintf(tw, "%s\terror: %v\n", r.Path, r.Err)
			continue
		}
		h := r.Header
		_, _ = fmt.Fprintf(tw, "%s\t%d.%d\t%s\t%s\t%s\t%dx%d\t%d\n",
			r.Path, h.Major, h.Minor, h.Format.Type, h.Format.Endian, h.Format.Order,
			h.Format.Shape[0], h.Format.Shape[1], h.DataOffset)
	}
	return tw.Flush()
}

func printResultsJSON(w io.Writer, results []inspect.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
