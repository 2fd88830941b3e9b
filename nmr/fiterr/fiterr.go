package fiterr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds.
var (
	ErrDomain        = errors.New("domain error")
	ErrNumerical     = errors.New("numerical error")
	ErrConfiguration = errors.New("configuration error")
	ErrOptimization  = errors.New("optimization error")
)

// Stage names the part of the fitting pipeline that produced an error.
type Stage string

// Pipeline stages.
const (
	StageLineshape Stage = "lineshape"
	StageCompose   Stage = "compose"
	StageObjective Stage = "objective"
	StageBounds    Stage = "bounds"
	StageOptimize  Stage = "optimize"
	StageRefine    Stage = "refine"
	StageResult    Stage = "result"
	StageInput     Stage = "input"
)

// Error is a classified fitting error.
type Error struct {
	Kind   error
	Stage  Stage
	Op     string
	Params []float64
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Stage != "" {
		b.WriteString(string(e.Stage))
		b.WriteString(": ")
	}

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}

	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

func newError(kind error, stage Stage, op, format string, args ...any) *Error {
	var cause error
	if format != "" {
		cause = fmt.Errorf(format, args...)
	}

	return &Error{Kind: kind, Stage: stage, Op: op, Err: cause}
}

// Domain returns an ErrDomain error.
func Domain(stage Stage, op, format string, args ...any) *Error {
	return newError(ErrDomain, stage, op, format, args...)
}

// Numerical returns an ErrNumerical error.
func Numerical(stage Stage, op, format string, args ...any) *Error {
	return newError(ErrNumerical, stage, op, format, args...)
}

// Configuration returns an ErrConfiguration error.
func Configuration(stage Stage, op, format string, args ...any) *Error {
	return newError(ErrConfiguration, stage, op, format, args...)
}

// Optimization wraps cause as an ErrOptimization error.
func Optimization(stage Stage, op string, cause error) *Error {
	return &Error{Kind: ErrOptimization, Stage: stage, Op: op, Err: cause}
}

// WithParams returns err annotated with a copy of params. If err is an
// *Error that already carries parameters it is returned unchanged; other
// errors are wrapped into an *Error at the given stage.
func WithParams(err error, stage Stage, params []float64) error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		if fe.Params != nil {
			return err
		}

		cp := *fe
		cp.Params = append([]float64(nil), params...)
		if cp.Stage == "" {
			cp.Stage = stage
		}

		return &cp
	}

	return &Error{
		Stage:  stage,
		Params: append([]float64(nil), params...),
		Err:    err,
	}
}

// StageOf reports the stage recorded in err, or "" if err carries none.
func StageOf(err error) Stage {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage
	}

	return ""
}

// ParamsOf reports the parameter vector recorded in err, if any.
func ParamsOf(err error) []float64 {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Params
	}

	return nil
}
