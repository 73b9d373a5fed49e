// Package formula implements the configurable expression engine for custom
// sports-science metrics: validation, variable extraction, and evaluation of
// arithmetic expressions (+ - * / ^, parens, named variables) over
// decimal.Decimal inputs, plus a registry of named formulas so a caller can
// validate a custom metric once and evaluate it repeatedly.
package formula

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

// TssMethod names one of the two predefined TSS expressions, or signals that
// a custom, user-supplied expression should be used instead.
type TssMethod int

const (
	TssClassic TssMethod = iota
	TssBikeScore
	TssCustom
)

func (m TssMethod) String() string {
	switch m {
	case TssClassic:
		return "classic"
	case TssBikeScore:
		return "bike_score"
	case TssCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// TssFormula pairs a method with the expression it evaluates. Classic and
// BikeScore carry their fixed expression; Custom carries a caller-supplied
// one.
type TssFormula struct {
	Method     TssMethod
	Expression string
}

// ClassicTSS is "(duration * IF^2) * 100" — the standard TrainingPeaks TSS
// formula.
func ClassicTSS() TssFormula {
	return TssFormula{Method: TssClassic, Expression: "(duration * IF^2) * 100"}
}

// BikeScoreTSS applies a lighter intensity exponent, weighting sustained
// efforts relative to Classic TSS.
func BikeScoreTSS() TssFormula {
	return TssFormula{Method: TssBikeScore, Expression: "(duration * (IF^1.5)) * 100"}
}

// CustomTSS wraps an arbitrary expression as a TssFormula.
func CustomTSS(expression string) TssFormula {
	return TssFormula{Method: TssCustom, Expression: expression}
}

// IsCustom reports whether f is a user-defined expression rather than one of
// the two predefined formulas.
func (f TssFormula) IsCustom() bool { return f.Method == TssCustom }

// Validate checks expr for structural validity: non-empty, only characters
// from the arithmetic/identifier alphabet, and balanced parentheses. It does
// not check that referenced variables will be supplied at evaluation time —
// that's an Evaluate-time concern, since the variable set is data-dependent.
func Validate(expr string) error {
	if expr == "" {
		return &SyntaxError{Expression: expr, Reason: "expression cannot be empty"}
	}
	if err := validateChars(expr); err != nil {
		return err
	}
	if err := validateParens(expr); err != nil {
		return err
	}
	return nil
}

// Evaluate parses and evaluates expr against the supplied decimal variable
// bindings, following the predefined engine's approach of evaluating in
// float64 (matching IEEE-754 semantics of `evalexpr`-style engines) and
// converting the final scalar back to decimal.Decimal. A non-finite result
// (overflow, 0/0) is rejected rather than silently returned.
func Evaluate(expr string, variables map[string]decimal.Decimal) (decimal.Decimal, error) {
	if err := Validate(expr); err != nil {
		return decimal.Zero, err
	}

	floatVars := make(map[string]float64, len(variables))
	for name, v := range variables {
		f, _ := v.Float64()
		floatVars[name] = f
	}

	ast, err := parseExpression(expr)
	if err != nil {
		return decimal.Zero, err
	}

	result, err := ast.eval(floatVars)
	if err != nil {
		return decimal.Zero, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return decimal.Zero, &EvaluationError{Reason: "non-finite result"}
	}
	return decimal.NewFromFloat(result), nil
}

// EvaluateStrings is a convenience wrapper for callers holding variables as
// strings (CLI flags, config file values).
func EvaluateStrings(expr string, variables map[string]string) (decimal.Decimal, error) {
	decVars := make(map[string]decimal.Decimal, len(variables))
	for name, s := range variables {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, &ValidationError{Reason: "variable " + name + " is not numeric: " + s}
		}
		decVars[name] = v
	}
	return Evaluate(expr, decVars)
}

// CustomFormula is a named, reusable expression with its referenced
// variables precomputed at registration time.
type CustomFormula struct {
	Name        string
	Expression  string
	Variables   []string
	Description string
}

// NewCustomFormula builds a CustomFormula, extracting its variable list from
// the expression text.
func NewCustomFormula(name, expression string) CustomFormula {
	return CustomFormula{
		Name:       name,
		Expression: expression,
		Variables:  ExtractVariables(expression),
	}
}

// WithDescription returns a copy of f with Description set.
func (f CustomFormula) WithDescription(desc string) CustomFormula {
	f.Description = desc
	return f
}

// Validate checks the formula's name and expression.
func (f CustomFormula) Validate() error {
	if f.Name == "" {
		return &ValidationError{Reason: "formula name cannot be empty"}
	}
	return Validate(f.Expression)
}

// Registry holds named custom formulas so a caller registers and validates a
// formula once, then evaluates it repeatedly by name without re-parsing
// syntax errors into the hot path.
type Registry struct {
	mu       sync.RWMutex
	formulas map[string]CustomFormula
}

// NewRegistry returns an empty formula registry.
func NewRegistry() *Registry {
	return &Registry{formulas: make(map[string]CustomFormula)}
}

// Register validates and stores f, replacing any existing formula of the
// same name.
func (r *Registry) Register(f CustomFormula) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formulas[f.Name] = f
	return nil
}

// Get returns the named formula, if registered.
func (r *Registry) Get(name string) (CustomFormula, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formulas[name]
	return f, ok
}

// Remove deletes the named formula, returning it if it existed.
func (r *Registry) Remove(name string) (CustomFormula, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.formulas[name]
	if ok {
		delete(r.formulas, name)
	}
	return f, ok
}

// List returns every registered formula, in no particular order.
func (r *Registry) List() []CustomFormula {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CustomFormula, 0, len(r.formulas))
	for _, f := range r.formulas {
		out = append(out, f)
	}
	return out
}

// Evaluate looks up name and evaluates its expression against variables,
// returning UnknownVariableError-shaped errors unchanged from Evaluate.
func (r *Registry) Evaluate(name string, variables map[string]decimal.Decimal) (decimal.Decimal, error) {
	f, ok := r.Get(name)
	if !ok {
		return decimal.Zero, &ValidationError{Reason: "no formula registered as " + name}
	}
	return Evaluate(f.Expression, variables)
}
