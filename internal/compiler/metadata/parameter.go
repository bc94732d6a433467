// Package metadata describes what platform extensions declare: conditions,
// actions, expressions, object types, behavior types and event types, along
// with the information the code generator needs to call into the runtime.
//
// Metadata is assembled once through builder methods at registration time
// and is read-only afterwards.
package metadata

// Parameter types understood by the code generator
const (
	ParamExpression         = "expression"
	ParamNumber             = "number"
	ParamString             = "string"
	ParamLayer              = "layer"
	ParamColor              = "color"
	ParamFile               = "file"
	ParamSceneName          = "sceneName"
	ParamAnimationName      = "objectAnimationName"
	ParamObject             = "object"
	ParamObjectPtr          = "objectPtr"
	ParamObjectList         = "objectList"
	ParamObjectListOrEmpty  = "objectListOrEmptyIfJustDeclared"
	ParamBehavior           = "behavior"
	ParamSceneVariable      = "scenevar"
	ParamGlobalVariable     = "globalvar"
	ParamObjectVariable     = "objectvar"
	ParamOperator           = "operator"
	ParamRelationalOperator = "relationalOperator"
	ParamYesOrNo            = "yesorno"
	ParamTrueOrFalse        = "trueorfalse"
	ParamKey                = "key"
	ParamMouse              = "mouse"
	ParamIdentifier         = "identifier"
	ParamCurrentScene       = "currentScene"
	ParamInlineCode         = "inlineCode"
	ParamConditionInverted  = "conditionInverted"
)

// ParameterKind classifies a parameter
type ParameterKind int

const (
	// KindValue is a value the author types (number, text, operator, key...)
	KindValue ParameterKind = iota
	// KindObject names an object or a group of objects
	KindObject
	// KindCodeOnly is only materialized in generated code
	KindCodeOnly
)

// ParameterMetadata describes one parameter of an instruction or expression
type ParameterMetadata struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	// SupplementaryInformation restricts object parameters to an object
	// type, or carries the inline code of code-only parameters.
	SupplementaryInformation string `json:"supplementaryInformation,omitempty"`
	Optional                 bool   `json:"optional,omitempty"`
	DefaultValue             string `json:"defaultValue,omitempty"`
	CodeOnly                 bool   `json:"codeOnly,omitempty"`
}

// Kind classifies the parameter
func (p ParameterMetadata) Kind() ParameterKind {
	switch {
	case p.CodeOnly:
		return KindCodeOnly
	case IsObject(p.Type):
		return KindObject
	default:
		return KindValue
	}
}

// IsObject reports whether a parameter type names an object
func IsObject(paramType string) bool {
	switch paramType {
	case ParamObject, ParamObjectPtr, ParamObjectList, ParamObjectListOrEmpty:
		return true
	}
	return false
}

// IsBehavior reports whether a parameter type names a behavior
func IsBehavior(paramType string) bool {
	return paramType == ParamBehavior
}

// IsVariable reports whether a parameter type names a variable
func IsVariable(paramType string) bool {
	switch paramType {
	case ParamSceneVariable, ParamGlobalVariable, ParamObjectVariable:
		return true
	}
	return false
}

// ExpressionType returns "number" or "string" for parameters holding an
// expression, and "" otherwise.
func ExpressionType(paramType string) string {
	switch paramType {
	case ParamExpression, ParamNumber:
		return ValueNumber
	case ParamString, ParamLayer, ParamColor, ParamFile, ParamSceneName, ParamAnimationName:
		return ValueString
	}
	return ""
}
