package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/born-ml/tenh/internal/expr"
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/safetensors"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

// Session holds the spaces, tensors and scalar results of an executed problem.
type Session[T tensor.Scalar] struct {
	problem *Problem
	runner  *Runner
	builder *expr.Builder[T]
	spaces  map[string]*space.Space
	tensors map[string]*expr.Tensor[T]
	scalars map[string]T
	used    map[string]bool
}

// Execute declares the problem's spaces and tensors, then runs its assignments
// and evaluations in order.
func Execute[T tensor.Scalar](ctx context.Context, r *Runner, p *Problem) (*Session[T], error) {
	s := &Session[T]{
		problem: p,
		runner:  r,
		builder: expr.NewBuilder[T](),
		spaces:  make(map[string]*space.Space, len(p.Spaces)),
		tensors: make(map[string]*expr.Tensor[T], len(p.Tensors)),
		scalars: make(map[string]T, len(p.Evaluations)),
		used:    make(map[string]bool, len(p.Tensors)),
	}

	for _, spec := range p.Spaces {
		sp, err := s.declareSpace(spec)
		if err != nil {
			return nil, fmt.Errorf("space %q: %w", spec.Name, err)
		}
		s.spaces[spec.Name] = sp
	}
	for _, spec := range p.Tensors {
		t, err := s.declareTensor(spec)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		s.tensors[spec.Name] = t
	}
	r.log.Debug("problem declared", "spaces", len(s.spaces), "tensors", len(s.tensors))

	for i, a := range p.Assignments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.assign(a); err != nil {
			return nil, fmt.Errorf("assignment %d (%s): %w", i, a.Target, err)
		}
	}
	for _, e := range p.Evaluations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := s.build(&e.Expr)
		if err != nil {
			return nil, fmt.Errorf("evaluation %q: %w", e.Name, err)
		}
		v, err := expr.EvaluateScalar(n)
		if err != nil {
			return nil, fmt.Errorf("evaluation %q: %w", e.Name, err)
		}
		r.log.Debug("evaluated", "name", e.Name, "expr", n.String(), "value", v)
		s.scalars[e.Name] = v
	}
	s.warnUnused()
	return s, nil
}

// warnUnused reports declared tensors that no statement or output refers to.
func (s *Session[T]) warnUnused() {
	var outputs []string
	if s.problem.Outputs != nil {
		outputs = s.problem.Outputs.Tensors
	}
	for _, spec := range s.problem.Tensors {
		if !s.used[spec.Name] && !slices.Contains(outputs, spec.Name) {
			s.runner.log.Warn("tensor is never used", "tensor", spec.Name)
		}
	}
}

// Space returns a declared space.
func (s *Session[T]) Space(name string) (*space.Space, bool) {
	sp, ok := s.spaces[name]
	return sp, ok
}

// Tensor returns a declared tensor.
func (s *Session[T]) Tensor(name string) (*expr.Tensor[T], bool) {
	t, ok := s.tensors[name]
	return t, ok
}

// Scalar returns the value of a named evaluation.
func (s *Session[T]) Scalar(name string) (T, bool) {
	v, ok := s.scalars[name]
	return v, ok
}

func (s *Session[T]) assign(a Assignment) error {
	target, ok := s.tensors[a.Target]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTensor, a.Target)
	}
	s.used[a.Target] = true
	n, err := s.build(&a.Expr)
	if err != nil {
		return err
	}
	symbols := toSymbols(a.Indices)
	s.runner.log.Debug("assign", "target", a.Target, "indices", a.Indices, "expr", n.String())
	return expr.Assign(target, symbols, n, expr.WithParallel(s.runner.parallel))
}

func (s *Session[T]) resolveSpace(ref string) (*space.Space, error) {
	name, dual := strings.CutSuffix(ref, "*")
	sp, ok := s.spaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpace, name)
	}
	if dual {
		return sp.Dual(), nil
	}
	return sp, nil
}

func (s *Session[T]) resolveSpaces(refs []string) ([]*space.Space, error) {
	out := make([]*space.Space, len(refs))
	for i, ref := range refs {
		sp, err := s.resolveSpace(ref)
		if err != nil {
			return nil, err
		}
		out[i] = sp
	}
	return out, nil
}

func (s *Session[T]) declareSpace(spec SpaceSpec) (*space.Space, error) {
	switch {
	case spec.Dim != nil:
		field := tensor.Real
		if spec.Field == "complex" {
			field = tensor.Complex
		}
		if spec.Abstract {
			return space.NewAbstractVectorSpace(spec.Name, *spec.Dim, field)
		}
		return space.NewVectorSpace(spec.Name, *spec.Dim, field)
	case len(spec.Tensor) > 0:
		factors, err := s.resolveSpaces(spec.Tensor)
		if err != nil {
			return nil, err
		}
		return space.TensorProduct(factors...)
	case spec.Sym != nil:
		f, err := s.resolveSpace(spec.Sym.Of)
		if err != nil {
			return nil, err
		}
		return space.SymmetricPower(spec.Sym.Power, f)
	case spec.Ext != nil:
		f, err := s.resolveSpace(spec.Ext.Of)
		if err != nil {
			return nil, err
		}
		return space.ExteriorPower(spec.Ext.Power, f)
	case len(spec.Diag2) > 0:
		factors, err := s.resolveSpaces(spec.Diag2)
		if err != nil {
			return nil, err
		}
		return space.Diagonal2(factors[0], factors[1])
	case spec.Scalar2 != "":
		f, err := s.resolveSpace(spec.Scalar2)
		if err != nil {
			return nil, err
		}
		return space.Scalar2(f)
	case len(spec.Sum) > 0:
		summands, err := s.resolveSpaces(spec.Sum)
		if err != nil {
			return nil, err
		}
		return space.Sum(summands...)
	default:
		summands, err := s.resolveSpaces(spec.DirectSum)
		if err != nil {
			return nil, err
		}
		return space.DirectSum(summands...)
	}
}

func (s *Session[T]) declareTensor(spec TensorSpec) (*expr.Tensor[T], error) {
	sp, err := s.resolveSpace(spec.Space)
	if err != nil {
		return nil, err
	}
	switch {
	case spec.Source != nil:
		name := spec.Source.Tensor
		if name == "" {
			name = spec.Name
		}
		data, _, err := safetensors.ReadFile[T](s.resolvePath(spec.Source.File), name)
		if err != nil {
			return nil, err
		}
		return expr.NewTensor[T](sp, data)
	case len(spec.Components) > 0:
		data := make([]T, len(spec.Components))
		for i, c := range spec.Components {
			if data[i], err = parseScalar[T](c); err != nil {
				return nil, fmt.Errorf("component %d: %w", i, err)
			}
		}
		return expr.NewTensor[T](sp, tensor.Wrap(data))
	default:
		return expr.Zeros[T](sp)
	}
}

func (s *Session[T]) resolvePath(path string) string {
	if filepath.IsAbs(path) || s.problem.BaseDir == "" {
		return path
	}
	return filepath.Join(s.problem.BaseDir, path)
}

// build converts an expression tree into an evaluator node.
func (s *Session[T]) build(e *Expr) (expr.Node[T], error) {
	if n := e.kinds(); n != 1 {
		return nil, fmt.Errorf("%w: expression sets %d operations, want exactly 1", ErrInvalidProblem, n)
	}
	b := s.builder
	switch {
	case e.Leaf != "":
		t, ok := s.tensors[e.Leaf]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTensor, e.Leaf)
		}
		s.used[e.Leaf] = true
		return b.Leaf(t, toSymbols(e.Indices)...)
	case len(e.Add) > 0:
		return s.fold(e.Add, b.Add)
	case len(e.Sub) > 0:
		if len(e.Sub) != 2 {
			return nil, fmt.Errorf("%w: sub takes 2 operands, got %d", ErrInvalidProblem, len(e.Sub))
		}
		return s.fold(e.Sub, b.Sub)
	case len(e.Mul) > 0:
		return s.fold(e.Mul, func(l, r expr.Node[T]) (expr.Node[T], error) { return b.Mul(l, r) })
	case e.Neg != nil:
		operand, err := s.build(e.Neg)
		if err != nil {
			return nil, err
		}
		return b.Neg(operand)
	case e.Scale != nil, e.Div != nil:
		se, op := e.Scale, b.Scale
		if se == nil {
			se, op = e.Div, b.Div
		}
		operand, err := s.build(&se.Of)
		if err != nil {
			return nil, err
		}
		factor, err := parseScalar[T](se.By)
		if err != nil {
			return nil, err
		}
		return op(operand, factor)
	case e.Bundle != nil:
		operand, err := s.build(&e.Bundle.Of)
		if err != nil {
			return nil, err
		}
		target, err := s.resolveSpace(e.Bundle.Space)
		if err != nil {
			return nil, err
		}
		return b.Bundle(operand, toSymbols(e.Bundle.Indices), target, indices.Symbol(e.Bundle.As))
	case e.Split != nil:
		operand, err := s.build(&e.Split.Of)
		if err != nil {
			return nil, err
		}
		if e.Split.As != "" {
			return b.SplitToIndex(operand, indices.Symbol(e.Split.Index), indices.Symbol(e.Split.As))
		}
		return b.Split(operand, indices.Symbol(e.Split.Index), toSymbols(e.Split.Into)...)
	case e.Embed != nil:
		operand, err := s.build(&e.Embed.Of)
		if err != nil {
			return nil, err
		}
		codomain, err := s.resolveSpace(e.Embed.Space)
		if err != nil {
			return nil, err
		}
		return b.Embed(operand, indices.Symbol(e.Embed.Index), codomain, indices.Symbol(e.Embed.As))
	default:
		operand, err := s.build(&e.Coembed.Of)
		if err != nil {
			return nil, err
		}
		domain, err := s.resolveSpace(e.Coembed.Space)
		if err != nil {
			return nil, err
		}
		return b.Coembed(operand, indices.Symbol(e.Coembed.Index), domain, indices.Symbol(e.Coembed.As))
	}
}

// fold combines operands left to right.
func (s *Session[T]) fold(operands []Expr, op func(l, r expr.Node[T]) (expr.Node[T], error)) (expr.Node[T], error) {
	acc, err := s.build(&operands[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(operands); i++ {
		next, err := s.build(&operands[i])
		if err != nil {
			return nil, err
		}
		if acc, err = op(acc, next); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func toSymbols(names []string) []indices.Symbol {
	out := make([]indices.Symbol, len(names))
	for i, n := range names {
		out[i] = indices.Symbol(n)
	}
	return out
}

// parseScalar parses a literal such as "2", "-0.5" or, for complex types, "1+2i".
func parseScalar[T tensor.Scalar](l Literal) (T, error) {
	var zero T
	lit := strings.TrimSpace(string(l))
	switch any(zero).(type) {
	case float32:
		v, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
		}
		return any(float32(v)).(T), nil
	case float64:
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
		}
		return any(v).(T), nil
	case complex64:
		v, err := strconv.ParseComplex(lit, 64)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
		}
		return any(complex64(v)).(T), nil
	case complex128:
		v, err := strconv.ParseComplex(lit, 128)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
		}
		return any(v).(T), nil
	default:
		return zero, fmt.Errorf("%w: %T", ErrUnsupportedDType, zero)
	}
}
