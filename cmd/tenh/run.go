package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tenh/internal/workspace"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <problem.yaml>",
		Short: "Execute a problem file and print its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			p, err := workspace.Load(args[0])
			if err != nil {
				return err
			}
			log = log.With("problem", filepath.Base(args[0]))
			log.Debug("problem loaded", "assignments", len(p.Assignments))

			summary, err := workspace.NewRunner(cfg, log).Run(cmd.Context(), p)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func printSummary(out io.Writer, s *workspace.Summary) {
	for _, t := range s.Tensors {
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s ∈ %s", t.Name, t.Space)))
		fmt.Fprintf(out, "  shape %v  dtype %s\n", []int(t.Shape), s.DType)
		fmt.Fprintf(out, "  [%s]\n", strings.Join(t.Components, " "))
		if t.Matrix != nil {
			fmt.Fprintf(out, "  %v\n", mat.Formatted(t.Matrix, mat.Prefix("  "), mat.Squeeze()))
		}
	}
	if len(s.Scalars) > 0 {
		fmt.Fprintln(out, headerStyle.Render("scalars"))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, v := range s.Scalars {
			fmt.Fprintf(w, "  %s\t%s\n", v.Name, v.Value)
		}
		_ = w.Flush()
	}
	if s.OutputFile != "" {
		fmt.Fprintf(out, "wrote %s\n", s.OutputFile)
	}
}
