// Package extensions declares the built-in extensions: the events,
// conditions, actions, expressions, object types and behavior types every
// project can use, with the runtime functions they call on each target.
package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
)

// Declaration builds one extension for a target
type Declaration func(target string) *metadata.PlatformExtension

// Builtins lists the built-in extensions in registration order. Lookups
// stop at the first extension declaring a name, so the order matters.
var Builtins = []Declaration{
	DeclareCommonInstructions,
	DeclareBaseObject,
	DeclareVariables,
	DeclareMathematicalTools,
	DeclareStringInstructions,
	DeclareScene,
	DeclareSprite,
	DeclareTextObject,
	DeclarePlatformBehavior,
	DeclareStoreExample,
}

// NewPlatform creates a platform for target with every built-in extension
func NewPlatform(target string) *platform.Platform {
	p := platform.New(target)
	for _, declare := range Builtins {
		p.AddExtension(declare(target))
	}
	return p
}

// runtime picks the function name of the target
func runtime(target, js, native string) string {
	if target == platform.TargetNative {
		return native
	}
	return js
}

// comparison declares the operator and operand parameters of a condition
// comparing a number or a string
func comparison(md *metadata.InstructionMetadata, valueType string) *metadata.InstructionMetadata {
	operand := metadata.ParamExpression
	if valueType == metadata.ValueString {
		operand = metadata.ParamString
	}
	return md.
		AddParameter(metadata.ParamRelationalOperator, "Sign of the test", "", false).
		AddParameter(operand, "Value to compare", "", false).
		SetManipulatedType(valueType)
}

// modification declares the operator and operand parameters of an action
// changing a number or a string through a getter and a setter
func modification(md *metadata.InstructionMetadata, valueType, setter, getter string) *metadata.InstructionMetadata {
	operand := metadata.ParamExpression
	if valueType == metadata.ValueString {
		operand = metadata.ParamString
	}
	return md.
		AddParameter(metadata.ParamOperator, "Modification's sign", "", false).
		AddParameter(operand, "Value", "", false).
		SetManipulatedType(valueType).
		SetFunctionName(setter).
		SetGetter(getter)
}
