package errors

import (
	"fmt"
)

// Code generation error codes (GEN600-699)
const (
	// ErrCodeGenFailed indicates a general code generation failure
	ErrCodeGenFailed ErrorCode = "GEN600"
	// ErrUnknownInstruction indicates an instruction or event type no extension declares
	ErrUnknownInstruction ErrorCode = "GEN601"
	// ErrUnknownObject indicates an object or group missing from the scene and the project
	ErrUnknownObject ErrorCode = "GEN602"
	// ErrInvalidOperator indicates an operator token the instruction cannot lower
	ErrInvalidOperator ErrorCode = "GEN603"
	// ErrExpressionParse indicates malformed parameter text
	ErrExpressionParse ErrorCode = "GEN604"
	// ErrUnknownFunction indicates an expression calling an undeclared function
	ErrUnknownFunction ErrorCode = "GEN605"
	// ErrMissingParameter indicates a required parameter left empty
	ErrMissingParameter ErrorCode = "GEN606"
	// ErrUnknownVariable indicates an identifier that resolves to nothing
	ErrUnknownVariable ErrorCode = "GEN607"
	// ErrCustomGenerator indicates a custom code generator that reported a failure
	ErrCustomGenerator ErrorCode = "GEN608"
)

// NewCodeGenFailed creates a GEN600 error
func NewCodeGenFailed(loc Location, reason string) *CompilerError {
	return newError(
		ErrCodeGenFailed,
		"codegen_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Code generation failed: %s", reason),
		loc,
	).WithSuggestion("This is likely a compiler bug - please report it")
}

// NewUnknownInstruction creates a GEN601 error
func NewUnknownInstruction(loc Location, kind, name string) *CompilerError {
	return newError(
		ErrUnknownInstruction,
		"unknown_instruction",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Unknown or unsupported %s '%s'", kind, name),
		loc,
	).WithSuggestion("Check that the extension declaring it is enabled for this project")
}

// NewUnknownObject creates a GEN602 error
func NewUnknownObject(loc Location, name string) *CompilerError {
	return newError(
		ErrUnknownObject,
		"unknown_object",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Object or group '%s' does not exist in the scene or the project", name),
		loc,
	).WithSuggestion("Create the object or fix the spelling of its name")
}

// NewInvalidOperator creates a GEN603 error
func NewInvalidOperator(loc Location, operator, kind string) *CompilerError {
	return newError(
		ErrInvalidOperator,
		"invalid_operator",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("'%s' is not a valid %s operator", operator, kind),
		loc,
	).WithExamples("Comparisons: =, !=, <, <=, >, >=", "Modifications: =, +, -, *, /")
}

// NewExpressionParse creates a GEN604 warning. The parameter is replaced
// by a default value so the rest of the instruction still builds.
func NewExpressionParse(loc Location, text, message, near string) *CompilerError {
	return newError(
		ErrExpressionParse,
		"expression_parse_error",
		CategoryCodeGen,
		SeverityWarning,
		message,
		loc,
	).WithContext(text, near)
}

// NewUnknownFunction creates a GEN605 error
func NewUnknownFunction(loc Location, name string) *CompilerError {
	return newError(
		ErrUnknownFunction,
		"unknown_function",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Function '%s' is not declared by any extension", name),
		loc,
	)
}

// NewMissingParameter creates a GEN606 error
func NewMissingParameter(loc Location, instruction string, index int) *CompilerError {
	return newError(
		ErrMissingParameter,
		"missing_parameter",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Parameter %d of '%s' is required but empty", index+1, instruction),
		loc,
	)
}

// NewUnknownVariable creates a GEN607 warning
func NewUnknownVariable(loc Location, name string) *CompilerError {
	return newError(
		ErrUnknownVariable,
		"unknown_variable",
		CategoryCodeGen,
		SeverityWarning,
		fmt.Sprintf("'%s' is not an object, a variable, a property or a parameter", name),
		loc,
	).WithSuggestion("Declare the variable in the scene or the project")
}

// NewCustomGenerator creates a GEN608 error
func NewCustomGenerator(loc Location, name string, err error) *CompilerError {
	return newError(
		ErrCustomGenerator,
		"custom_generator_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Code generation for '%s' failed: %v", name, err),
		loc,
	)
}
