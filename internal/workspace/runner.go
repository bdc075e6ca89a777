package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tenh/internal/config"
	"github.com/born-ml/tenh/internal/expr"
	"github.com/born-ml/tenh/internal/interop"
	"github.com/born-ml/tenh/internal/logging"
	"github.com/born-ml/tenh/internal/parallel"
	"github.com/born-ml/tenh/internal/safetensors"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

// Runner executes problems with one set of driver settings.
type Runner struct {
	log       *logging.Logger
	parallel  parallel.Config
	outputDir string
}

// NewRunner creates a Runner from driver settings. A nil logger selects
// logging.Default.
func NewRunner(cfg config.Config, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Default()
	}
	return &Runner{
		log:       log,
		parallel:  cfg.ParallelOptions(),
		outputDir: cfg.OutputDir,
	}
}

// Summary reports the results of a run.
type Summary struct {
	DType   string
	Tensors []TensorResult
	Scalars []ScalarResult
	// OutputFile is the written SafeTensors file, if any.
	OutputFile string
}

// TensorResult is one reported tensor.
type TensorResult struct {
	Name       string
	Space      string
	Shape      tensor.Shape
	Components []string
	// Matrix is the full component matrix of a real 2-tensor, nil otherwise.
	Matrix *mat.Dense
}

// ScalarResult is one reported evaluation.
type ScalarResult struct {
	Name  string
	Value string
}

// Run executes p with the component type named by its dtype (float64 when
// unset), writes the requested outputs and summarizes the results.
func (r *Runner) Run(ctx context.Context, p *Problem) (*Summary, error) {
	switch p.DType {
	case "", "float64":
		return run[float64](ctx, r, p)
	case "float32":
		return run[float32](ctx, r, p)
	case "complex64":
		return run[complex64](ctx, r, p)
	case "complex128":
		return run[complex128](ctx, r, p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, p.DType)
	}
}

func run[T tensor.Scalar](ctx context.Context, r *Runner, p *Problem) (*Summary, error) {
	s, err := Execute[T](ctx, r, p)
	if err != nil {
		return nil, err
	}

	summary := &Summary{DType: tensor.DataTypeOf[T]().String()}
	names := s.reported()
	for _, name := range names {
		t, ok := s.tensors[name]
		if !ok {
			return nil, fmt.Errorf("%w: output %q", ErrUnknownTensor, name)
		}
		res := TensorResult{
			Name:       name,
			Space:      t.Space().String(),
			Shape:      componentShape(t.Space()),
			Components: make([]string, t.Storage().Size()),
		}
		parallel.For(len(res.Components), func(i int) {
			res.Components[i] = fmt.Sprint(t.Storage().Get(i))
		}, r.parallel)
		if ft, ok := any(t).(*expr.Tensor[float64]); ok {
			m, err := interop.ToMatrix(ft, expr.WithParallel(r.parallel))
			switch {
			case err == nil:
				res.Matrix = m
			case !errors.Is(err, interop.ErrNotMatrix):
				return nil, err
			}
		}
		summary.Tensors = append(summary.Tensors, res)
	}
	for _, e := range p.Evaluations {
		summary.Scalars = append(summary.Scalars, ScalarResult{Name: e.Name, Value: fmt.Sprint(s.scalars[e.Name])})
	}

	if p.Outputs != nil && p.Outputs.File != "" {
		path := r.outputPath(p, p.Outputs.File)
		if err := s.write(path, names); err != nil {
			r.log.Error("write failed", "file", path, "err", err)
			return nil, err
		}
		r.log.Info("wrote results", "file", path, "tensors", len(names))
		summary.OutputFile = path
	}
	return summary, nil
}

// reported lists the output tensors, or every assignment target in first
// assignment order when none are named.
func (s *Session[T]) reported() []string {
	if s.problem.Outputs != nil && len(s.problem.Outputs.Tensors) > 0 {
		return s.problem.Outputs.Tensors
	}
	var names []string
	seen := make(map[string]bool)
	for _, a := range s.problem.Assignments {
		if !seen[a.Target] {
			seen[a.Target] = true
			names = append(names, a.Target)
		}
	}
	return names
}

// write saves the named tensors to a SafeTensors file, each shaped by the
// factors of its space.
func (s *Session[T]) write(path string, names []string) error {
	entries := make(map[string]safetensors.Entry, len(names))
	metadata := map[string]string{"format": "tenh"}
	for _, name := range names {
		t, ok := s.tensors[name]
		if !ok {
			return fmt.Errorf("%w: output %q", ErrUnknownTensor, name)
		}
		data := make([]T, t.Storage().Size())
		for i := range data {
			data[i] = t.Storage().Get(i)
		}
		e, err := safetensors.NewEntry(componentShape(t.Space()), data)
		if err != nil {
			return fmt.Errorf("output %q: %w", name, err)
		}
		entries[name] = e
		metadata["space."+name] = t.Space().String()
	}
	return safetensors.WriteFile(path, entries, metadata)
}

func (r *Runner) outputPath(p *Problem, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	dir := r.outputDir
	if dir == "" {
		dir = p.BaseDir
	}
	return filepath.Join(dir, file)
}

// componentShape is the per-factor shape of a tensor product, or the flat
// dimension of any other space.
func componentShape(s *space.Space) tensor.Shape {
	if s.Kind() == space.KindTensorProduct {
		factors := s.Factors()
		shape := make(tensor.Shape, len(factors))
		for i, f := range factors {
			shape[i] = f.Dim()
		}
		return shape
	}
	return tensor.Shape{s.Dim()}
}
