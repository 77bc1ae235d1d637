package gobox

import (
	"fmt"

	"github.com/broady/gobox/types"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidDescriptor     ErrorCode = "invalid_descriptor"
	CodeRedefinition          ErrorCode = "redefinition"
	CodeUnresolvedDeclaration ErrorCode = "unresolved_declaration"
	CodeNilInterface          ErrorCode = "nil_interface"
	CodeMissingMethod         ErrorCode = "missing_method"
	CodeNilDereference        ErrorCode = "nil_dereference"
	CodeInvalidBox            ErrorCode = "invalid_box"
)

// Error is the error type returned (or, for misuse of unchecked entry
// points, panicked) by the registry and the value model.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// RuntimeError is implemented by errors that model the language's runtime
// panics. They are fatal unless recovered at the call site.
type RuntimeError interface {
	error
	RuntimeError()
}

// InterfaceConversionError is raised by MustAssert when a boxed value does
// not satisfy the asserted type.
type InterfaceConversionError struct {
	// Interface is the static interface type the value was held in, or nil
	// for the empty interface.
	Interface types.Type

	// Concrete is the dynamic type of the value, nil for a nil interface.
	Concrete types.Type

	// Asserted is the requested type.
	Asserted types.Type

	// MissingMethod names the first required method the concrete type
	// lacks, when Asserted is an interface.
	MissingMethod string
}

func (*InterfaceConversionError) RuntimeError() {}

func (e *InterfaceConversionError) Error() string {
	inter := "interface {}"
	if e.Interface != nil {
		inter = types.TypeString(e.Interface)
	}
	as := types.TypeString(e.Asserted)
	if e.Concrete == nil {
		return "interface conversion: " + inter + " is nil, not " + as
	}
	cs := types.TypeString(e.Concrete)
	if e.MissingMethod == "" {
		return "interface conversion: " + inter + " is " + cs + ", not " + as
	}
	return "interface conversion: " + cs + " is not " + as + ": missing method " + e.MissingMethod
}

// nilDereference is panicked when a nil pointer is dereferenced.
var nilDereference = NewError(CodeNilDereference, "invalid memory address or nil pointer dereference")
