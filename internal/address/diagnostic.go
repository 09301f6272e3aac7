package address

import "fmt"

// Code is a stable error code identifying a diagnostic kind, grouped by
// the phase that raises it.
type Code string

// Resolution-phase codes.
const (
	CodeVariableIsAlreadyDefined Code = "RES001"
	CodeVariableIsNotDefined     Code = "RES002"
	CodeUnexpectedResolution     Code = "RES003"
	CodeImportOfUnknownModule    Code = "RES004"
)

// Type-phase codes.
const (
	CodeCouldNotUnify           Code = "TYP001"
	CodeTypesRecursion          Code = "TYP002"
	CodeTypesMismatch           Code = "TYP003"
	CodeMismatchedTypeAnnotation Code = "TYP004"
	CodeInvalidBinaryOp         Code = "TYP005"
	CodeInvalidUnaryOp          Code = "TYP006"
	CodeCallExprReturnsUnit     Code = "TYP007"
)

// Access-phase codes.
const (
	CodeInvalidFieldAccess Code = "ACC001"
	CodeFieldIsNotDefined  Code = "ACC002"
	CodeCouldNotCall       Code = "ACC003"
)

// Control-flow codes.
const (
	CodeBreakWithoutLoop       Code = "CTL001"
	CodeContinueWithoutLoop    Code = "CTL002"
	CodeNotAllBranchesReturn   Code = "CTL003"
	CodeManyDefaultCases       Code = "CTL004"
	CodeNoDefaultCaseFound     Code = "CTL005"
)

// Runtime codes.
const (
	CodeValueTypeExpected Code = "RUN001"
	CodeIoFailure         Code = "RUN002"
	CodeNativeCallFailure Code = "RUN003"
)

// Warning codes. Warnings do not halt the pipeline.
const (
	WarnAccessOfDynField Code = "WARN001"
	WarnCallOfDyn        Code = "WARN002"
)

// Diagnostic is the structured error every fatal failure produces. The
// checker accumulates no partial results past the first one raised within
// a declaration.
type Diagnostic struct {
	Code    Code
	Message string
	Primary Address
	Related []Address
}

func (d *Diagnostic) Error() string {
	if len(d.Related) == 0 {
		return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Primary)
	}
	return fmt.Sprintf("%s: %s (%s, related: %v)", d.Code, d.Message, d.Primary, d.Related)
}

// New builds a Diagnostic anchored at a single address.
func New(code Code, addr Address, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Primary: addr}
}

// WithRelated attaches additional related locations, e.g. both origins of
// a failed unification.
func (d *Diagnostic) WithRelated(addrs ...Address) *Diagnostic {
	d.Related = append(d.Related, addrs...)
	return d
}

// Warning is a non-fatal diagnostic surfaced alongside a successful check.
type Warning struct {
	Code    Code
	Message string
	At      Address
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.Code, w.Message, w.At)
}
