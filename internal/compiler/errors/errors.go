// Package errors provides structured error handling for the events compiler.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON for editors and tooling.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a unique error code in the events compiler
type ErrorCode string

// ErrorCategory represents the category of compiler error
type ErrorCategory string

const (
	// CategoryProject represents project model errors (PRJ001-099)
	CategoryProject ErrorCategory = "project"
	// CategoryCodeGen represents code generation errors (GEN600-699)
	CategoryCodeGen ErrorCategory = "codegen"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that prevents the scene from being built
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a degraded but still buildable instruction
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo indicates informational messages
	SeverityInfo ErrorSeverity = "info"
)

// Location points at an instruction (and optionally one of its parameters)
// inside the event tree of a scene.
type Location struct {
	// Scene is the scene, external events or function name
	Scene string `json:"scene,omitempty"`
	// Event is the dotted 1-based path of the event, e.g. "2.1"
	Event string `json:"event,omitempty"`
	// Instruction is the instruction type
	Instruction string `json:"instruction,omitempty"`
	// Parameter is the 0-based parameter index, -1 when not applicable
	Parameter int `json:"parameter"`
	// Column is the 1-based column inside the parameter expression
	Column int `json:"column,omitempty"`
}

// NoParameter is used when a location does not point at a parameter
const NoParameter = -1

// String renders the location as scene:event:instruction[param]
func (l Location) String() string {
	s := l.Scene
	if s == "" {
		s = "<events>"
	}
	if l.Event != "" {
		s += ":" + l.Event
	}
	if l.Instruction != "" {
		s += ":" + l.Instruction
	}
	if l.Parameter >= 0 {
		s += fmt.Sprintf("[%d]", l.Parameter)
	}
	return s
}

// ErrorContext provides the expression text an error refers to
type ErrorContext struct {
	// Current is the full expression text
	Current string `json:"current"`
	// Near is the offending part of the expression
	Near string `json:"near,omitempty"`
}

// CompilerError represents a structured compiler error with comprehensive information
// for both human-readable output and tooling
type CompilerError struct {
	// Code is the unique error code (e.g., "GEN601")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is the position of the error in the event tree
	Location Location `json:"location"`
	// File is the project file name (optional)
	File string `json:"file,omitempty"`
	// Context provides the expression text
	Context *ErrorContext `json:"context,omitempty"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples provides example fixes (optional)
	Examples []string `json:"examples,omitempty"`
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return e.Format()
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *CompilerError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the project file name for the error
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.File = file
	return e
}

// WithContext sets the expression text for the error
func (e *CompilerError) WithContext(current, near string) *CompilerError {
	e.Context = &ErrorContext{
		Current: current,
		Near:    near,
	}
	return e
}

// WithExpected sets the expected value for the error
func (e *CompilerError) WithExpected(expected string) *CompilerError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value for the error
func (e *CompilerError) WithActual(actual string) *CompilerError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets example fixes for the error
func (e *CompilerError) WithExamples(examples ...string) *CompilerError {
	e.Examples = examples
	return e
}

// At replaces the location of the error
func (e *CompilerError) At(loc Location) *CompilerError {
	e.Location = loc
	return e
}

// ErrorList is a collection of compiler errors
type ErrorList []*CompilerError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings/info)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if the list contains any warnings
func (el ErrorList) HasWarnings() bool {
	for _, err := range el {
		if err.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ToJSON returns all errors as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	if el == nil {
		el = ErrorList{}
	}
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings, info int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// WithCode returns the errors carrying the given code
func (el ErrorList) WithCode(code ErrorCode) ErrorList {
	var out ErrorList
	for _, err := range el {
		if err.Code == code {
			out = append(out, err)
		}
	}
	return out
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc Location,
) *CompilerError {
	return &CompilerError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}
