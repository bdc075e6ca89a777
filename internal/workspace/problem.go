// Package workspace runs tensor-expression problems described in YAML.
//
// A problem declares vector spaces, tensors over them, and a sequence of
// assignments whose right-hand sides are expression trees:
//
//	dtype: float64
//	spaces:
//	  - {name: V, dim: 3}
//	  - {name: M, tensor: [V, V*]}
//	tensors:
//	  - {name: A, space: M, components: [1, 2, 3, 4, 5, 6, 7, 8, 9]}
//	  - {name: x, space: V, components: [1, 0, 0]}
//	  - {name: y, space: V}
//	assignments:
//	  - target: y
//	    indices: [i]
//	    expr: {mul: [{leaf: A, indices: [i, j]}, {leaf: x, indices: [j]}]}
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Common errors.
var (
	ErrInvalidProblem   = errors.New("workspace: invalid problem")
	ErrUnknownSpace     = errors.New("workspace: unknown space")
	ErrUnknownTensor    = errors.New("workspace: unknown tensor")
	ErrDuplicateName    = errors.New("workspace: duplicate name")
	ErrUnsupportedDType = errors.New("workspace: unsupported dtype")
)

// Problem is a parsed problem file.
type Problem struct {
	DType       string       `yaml:"dtype" validate:"omitempty,oneof=float32 float64 complex64 complex128"`
	Spaces      []SpaceSpec  `yaml:"spaces" validate:"dive"`
	Tensors     []TensorSpec `yaml:"tensors" validate:"dive"`
	Assignments []Assignment `yaml:"assignments" validate:"dive"`
	Evaluations []Evaluation `yaml:"evaluations" validate:"dive"`
	Outputs     *OutputSpec  `yaml:"outputs"`

	// BaseDir resolves relative source and output paths. Load sets it to the
	// problem file's directory.
	BaseDir string `yaml:"-"`
}

// SpaceSpec declares one space. Exactly one of Dim, Tensor, Sym, Ext, Diag2,
// Scalar2, Sum and DirectSum must be set. References name earlier spaces; a
// trailing "*" selects the dual.
type SpaceSpec struct {
	Name      string     `yaml:"name" validate:"required"`
	Dim       *int       `yaml:"dim" validate:"omitempty,gte=0"`
	Field     string     `yaml:"field" validate:"omitempty,oneof=real complex"`
	Abstract  bool       `yaml:"abstract"`
	Tensor    []string   `yaml:"tensor"`
	Sym       *PowerSpec `yaml:"sym"`
	Ext       *PowerSpec `yaml:"ext"`
	Diag2     []string   `yaml:"diag2" validate:"omitempty,len=2"`
	Scalar2   string     `yaml:"scalar2"`
	Sum       []string   `yaml:"sum"`
	DirectSum []string   `yaml:"dsum"`
}

// PowerSpec is a symmetric or exterior power of a factor.
type PowerSpec struct {
	Power int    `yaml:"power" validate:"gte=0"`
	Of    string `yaml:"of" validate:"required"`
}

// TensorSpec declares a tensor. Without Components or Source it starts at zero.
type TensorSpec struct {
	Name       string      `yaml:"name" validate:"required"`
	Space      string      `yaml:"space" validate:"required"`
	Components []Literal   `yaml:"components"`
	Source     *SourceSpec `yaml:"source"`
}

// SourceSpec loads components from a SafeTensors file.
type SourceSpec struct {
	File   string `yaml:"file" validate:"required"`
	Tensor string `yaml:"tensor"` // defaults to the declared tensor name
}

// Assignment writes an expression into a tensor.
type Assignment struct {
	Target  string   `yaml:"target" validate:"required"`
	Indices []string `yaml:"indices"`
	Expr    Expr     `yaml:"expr"`
}

// Evaluation computes a scalar expression.
type Evaluation struct {
	Name string `yaml:"name" validate:"required"`
	Expr Expr   `yaml:"expr"`
}

// OutputSpec selects which tensors are reported and written.
type OutputSpec struct {
	File    string   `yaml:"file"`
	Tensors []string `yaml:"tensors"`
}

// Expr is one node of an expression tree. Exactly one operation must be set.
type Expr struct {
	Leaf    string   `yaml:"leaf"`
	Indices []string `yaml:"indices"`

	Add     []Expr      `yaml:"add"`
	Sub     []Expr      `yaml:"sub"`
	Mul     []Expr      `yaml:"mul"`
	Neg     *Expr       `yaml:"neg"`
	Scale   *ScaleExpr  `yaml:"scale"`
	Div     *ScaleExpr  `yaml:"div"`
	Bundle  *BundleExpr `yaml:"bundle"`
	Split   *SplitExpr  `yaml:"split"`
	Embed   *CrossExpr  `yaml:"embed"`
	Coembed *CrossExpr  `yaml:"coembed"`
}

// ScaleExpr multiplies or divides an operand by a literal.
type ScaleExpr struct {
	By Literal `yaml:"by"`
	Of Expr    `yaml:"of"`
}

// BundleExpr fuses free indices into one index over a composite space.
type BundleExpr struct {
	Of      Expr     `yaml:"of"`
	Indices []string `yaml:"indices"`
	Space   string   `yaml:"space"`
	As      string   `yaml:"as"`
}

// SplitExpr separates a free index into per-factor indices, or into a single
// index over the embedding's product space when As is set.
type SplitExpr struct {
	Of    Expr     `yaml:"of"`
	Index string   `yaml:"index"`
	Into  []string `yaml:"into"`
	As    string   `yaml:"as"`
}

// CrossExpr moves a free index along a linear embedding.
type CrossExpr struct {
	Of    Expr   `yaml:"of"`
	Index string `yaml:"index"`
	Space string `yaml:"space"`
	As    string `yaml:"as"`
}

// Literal is a scalar written in a problem file: a number, or a complex
// literal such as 1+2i.
type Literal string

// UnmarshalYAML accepts any YAML scalar and keeps its text.
func (l *Literal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a scalar literal", ErrInvalidProblem, value.Line)
	}
	*l = Literal(value.Value)
	return nil
}

var validate = validator.New()

// Load reads and parses a problem file.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read problem: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.BaseDir = filepath.Dir(path)
	return p, nil
}

// Parse decodes and validates a problem.
func Parse(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks field constraints and that names are unique.
func (p *Problem) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProblem, err)
	}

	seen := make(map[string]bool)
	for _, s := range p.Spaces {
		if seen[s.Name] {
			return fmt.Errorf("%w: space %q", ErrDuplicateName, s.Name)
		}
		seen[s.Name] = true
		if n := s.kinds(); n != 1 {
			return fmt.Errorf("%w: space %q sets %d constructions, want exactly 1", ErrInvalidProblem, s.Name, n)
		}
	}

	seen = make(map[string]bool)
	for _, t := range p.Tensors {
		if seen[t.Name] {
			return fmt.Errorf("%w: tensor %q", ErrDuplicateName, t.Name)
		}
		seen[t.Name] = true
		if len(t.Components) > 0 && t.Source != nil {
			return fmt.Errorf("%w: tensor %q sets both components and source", ErrInvalidProblem, t.Name)
		}
	}
	return nil
}

func (s SpaceSpec) kinds() int {
	n := 0
	for _, set := range []bool{
		s.Dim != nil, len(s.Tensor) > 0, s.Sym != nil, s.Ext != nil,
		len(s.Diag2) > 0, s.Scalar2 != "", len(s.Sum) > 0, len(s.DirectSum) > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

func (e *Expr) kinds() int {
	n := 0
	for _, set := range []bool{
		e.Leaf != "", len(e.Add) > 0, len(e.Sub) > 0, len(e.Mul) > 0, e.Neg != nil,
		e.Scale != nil, e.Div != nil, e.Bundle != nil, e.Split != nil, e.Embed != nil, e.Coembed != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
