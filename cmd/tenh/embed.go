package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/tensor"
)

func newEmbedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embed <kind> <dims...>",
		Short: "Print the component layout of an embedding rule",
		Long: `Print, for every compact component of an embedding rule, its canonical
full multi-index and every full position it is copied to with its sign.

Kinds:
  identity <d1> [d2 ...]   identity on a product of the given dimensions
  sym <k> <n>              k-th symmetric power of an n-dim space
  ext <k> <n>              k-th exterior power of an n-dim space
  diag2 <a> <b>            diagonal of an a x b product
  diag2sym2 <n>            diagonal of n x n inside Sym^2
  scalar2 <n>              scalar multiples of the n x n identity`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRule(args[0], args[1:])
			if err != nil {
				return err
			}
			printRule(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func parseRule(kind string, args []string) (embedding.Rule, error) {
	dims := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a, err)
		}
		dims[i] = v
	}
	want := func(n int) error {
		if len(dims) != n {
			return fmt.Errorf("%s takes %d arguments, got %d", kind, n, len(dims))
		}
		return nil
	}

	switch kind {
	case "identity":
		return embedding.NewIdentity(tensor.Shape(dims))
	case "sym", "ext", "diag2":
		if err := want(2); err != nil {
			return nil, err
		}
		switch kind {
		case "sym":
			return embedding.NewSymmetricPower(dims[0], dims[1])
		case "ext":
			return embedding.NewExteriorPower(dims[0], dims[1])
		default:
			return embedding.NewDiagonal2(dims[0], dims[1])
		}
	case "diag2sym2", "scalar2":
		if err := want(1); err != nil {
			return nil, err
		}
		if kind == "scalar2" {
			return embedding.NewScalar2(dims[0])
		}
		return embedding.NewDiagonalToSym2(dims[0])
	default:
		return nil, fmt.Errorf("unknown embedding kind %q", kind)
	}
}

func printRule(out io.Writer, r embedding.Rule) {
	codomain := r.Codomain()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s: %d compact -> %v", r, r.Domain(), []int(codomain))))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "compact\trepresentative\tpositions")
	m := make([]int, len(codomain))
	for i := range r.Domain() {
		tensor.Unflatten(r.Representative(i), codomain, m)
		rep := formatIndex(m)

		var positions []string
		for j, scale := range r.Coembed(i) {
			tensor.Unflatten(j, codomain, m)
			sign := "+"
			if scale < 0 {
				sign = "-"
			}
			positions = append(positions, sign+formatIndex(m))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, rep, strings.Join(positions, " "))
	}
	_ = w.Flush()
}

func formatIndex(m []int) string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
