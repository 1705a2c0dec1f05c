// Package filter evaluates boolean expressions against Models API records,
// for client-side narrowing of listings beyond what the API's query
// parameters can express.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/lukrum/fxmodels/modelsapi"
)

// Filter is a compiled boolean expression over record fields
type Filter struct {
	expression string
	program    *vm.Program
}

// CompilationError describes a filter expression that failed to compile
type CompilationError struct {
	Expression string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("invalid filter expression %q: %v", e.Expression, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// Compile compiles an expression into an executable filter. Record fields
// are referenced by their Go names (Name, Active, TPPips, Pips, ...).
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Err: fmt.Errorf("empty expression")}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // record fields are injected at match time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Err: err}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the source expression the filter was compiled from
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against an environment map
func (f *Filter) Match(env map[string]any) (bool, error) {
	full := helperFunctions()
	for k, v := range env {
		full[k] = v
	}

	result, err := expr.Run(f.program, full)
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter did not evaluate to a boolean: %v", result)
	}
	return matched, nil
}

// Models returns the models matching the filter
func Models(f *Filter, models []modelsapi.Model) ([]modelsapi.Model, error) {
	var matched []modelsapi.Model
	for _, m := range models {
		ok, err := f.Match(modelEnv(m))
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// Trades returns the trades matching the filter
func Trades(f *Filter, trades []modelsapi.TradeHistory) ([]modelsapi.TradeHistory, error) {
	var matched []modelsapi.TradeHistory
	for _, t := range trades {
		ok, err := f.Match(tradeEnv(t))
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func modelEnv(m modelsapi.Model) map[string]any {
	return map[string]any{
		"ID":               m.ID,
		"Name":             m.Name,
		"ModelUUID":        m.ModelUUID,
		"Instrument":       m.Instrument,
		"Active":           m.Active,
		"ExitType":         m.ExitType,
		"TPPips":           m.TPPips,
		"SLPips":           m.SLPips,
		"EntryGranularity": m.EntryGranularity,
		"ExitGranularity":  m.ExitGranularity,
	}
}

func tradeEnv(t modelsapi.TradeHistory) map[string]any {
	return map[string]any{
		"ID":          t.ID,
		"ModelID":     t.ModelID,
		"ModelUUID":   t.ModelUUID,
		"TradeType":   t.TradeType,
		"TradeResult": t.TradeResult,
		"TsOpen":      t.TsOpen,
		"TsClose":     t.TsClose,
		"Pips":        t.Pips,
		"Balance":     t.Balance,
		"Open":        t.IsOpen(),
		"Win":         t.IsWin(),
	}
}

// helperFunctions returns the helper functions available in expressions
func helperFunctions() map[string]any {
	return map[string]any{
		"now": func() time.Time {
			return time.Now()
		},
		"date": func(s string) (time.Time, error) {
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
			return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
	}
}
