// Package visitors holds the read-only analyses run over event expressions:
// which extensions a project uses and what an identifier or a
// sub-expression denotes.
package visitors

import (
	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// Value types returned by InferType besides metadata.ValueNumber and
// metadata.ValueString
const (
	TypeVariable = "variable"
	TypeObject   = "object"
	TypeUnknown  = ""
)

// IdentifierKind is what a bare identifier denotes in a scope
type IdentifierKind int

const (
	UnknownIdentifier IdentifierKind = iota
	ObjectIdentifier
	SceneVariableIdentifier
	GlobalVariableIdentifier
	PropertyIdentifier
	ParameterIdentifier
)

func (k IdentifierKind) String() string {
	switch k {
	case ObjectIdentifier:
		return "object"
	case SceneVariableIdentifier:
		return "scene variable"
	case GlobalVariableIdentifier:
		return "global variable"
	case PropertyIdentifier:
		return "property"
	case ParameterIdentifier:
		return "parameter"
	default:
		return "unknown"
	}
}

// InferIdentifier resolves name in scope. When several categories share
// the name the first one wins, in this order: object or group, scene
// variable, global variable, property, parameter.
func InferIdentifier(scope *project.Scope, name string) IdentifierKind {
	switch {
	case scope == nil:
		return UnknownIdentifier
	case scope.HasObject(name):
		return ObjectIdentifier
	case scope.HasSceneVariable(name):
		return SceneVariableIdentifier
	case scope.HasGlobalVariable(name):
		return GlobalVariableIdentifier
	case scope.HasProperty(name):
		return PropertyIdentifier
	case scope.HasParameter(name):
		return ParameterIdentifier
	}
	return UnknownIdentifier
}

// IsVariable reports whether kind names a scene or global variable
func (k IdentifierKind) IsVariable() bool {
	return k == SceneVariableIdentifier || k == GlobalVariableIdentifier
}

// InferType returns the type of the value node evaluates to: number,
// string, variable, object, or "" when it cannot be told.
func InferType(p *platform.Platform, scope *project.Scope, node ast.Node) string {
	if node == nil {
		return TypeUnknown
	}
	v := &typeInferrer{platform: p, scope: scope}
	node.Visit(v)
	return v.result
}

type typeInferrer struct {
	platform *platform.Platform
	scope    *project.Scope
	result   string
}

func (v *typeInferrer) VisitNumberLiteral(*ast.NumberLiteral) { v.result = metadata.ValueNumber }
func (v *typeInferrer) VisitTextLiteral(*ast.TextLiteral)     { v.result = metadata.ValueString }
func (v *typeInferrer) VisitEmpty(*ast.Empty)                 { v.result = TypeUnknown }

func (v *typeInferrer) VisitObjectFunctionName(*ast.ObjectFunctionName) {
	v.result = TypeUnknown
}

func (v *typeInferrer) VisitOperator(n *ast.Operator) {
	n.Left.Visit(v)
	left := v.result
	n.Right.Visit(v)
	right := v.result
	switch {
	case left == metadata.ValueString || right == metadata.ValueString:
		v.result = metadata.ValueString
	default:
		v.result = metadata.ValueNumber
	}
}

func (v *typeInferrer) VisitUnaryOperator(*ast.UnaryOperator) {
	v.result = metadata.ValueNumber
}

func (v *typeInferrer) VisitSubExpression(n *ast.SubExpression) {
	n.Expr.Visit(v)
}

func (v *typeInferrer) VisitIdentifier(n *ast.Identifier) {
	switch InferIdentifier(v.scope, n.Name) {
	case ObjectIdentifier:
		v.result = TypeObject
	case SceneVariableIdentifier, GlobalVariableIdentifier:
		v.result = TypeVariable
	case PropertyIdentifier:
		prop, _ := v.scope.Property(n.Name)
		v.result = valueTypeOf(prop.Type)
	case ParameterIdentifier:
		param, _ := v.scope.Parameter(n.Name)
		v.result = valueTypeOf(param.Type)
	default:
		v.result = TypeUnknown
	}
}

func (v *typeInferrer) VisitFunctionCall(n *ast.FunctionCall) {
	v.result = TypeUnknown
	if v.platform == nil {
		return
	}
	scope := ExpressionScope(v.scope, n)
	if v.platform.FindExpression(n.FunctionName, scope, metadata.ValueNumber).Found() {
		v.result = metadata.ValueNumber
	} else if v.platform.FindExpression(n.FunctionName, scope, metadata.ValueString).Found() {
		v.result = metadata.ValueString
	}
}

func (v *typeInferrer) VisitVariable(*ast.Variable) {
	v.result = TypeVariable
}

func (v *typeInferrer) VisitVariableAccessor(*ast.VariableAccessor) {
	v.result = TypeVariable
}

func (v *typeInferrer) VisitVariableBracketAccessor(*ast.VariableBracketAccessor) {
	v.result = TypeVariable
}

// ExpressionScope returns the platform scope a function call is looked up in
func ExpressionScope(scope *project.Scope, call *ast.FunctionCall) platform.Scope {
	if !call.IsObjectCall() {
		return platform.Global()
	}
	objectType := ""
	behaviorType := ""
	if scope != nil {
		objectType = scope.ObjectType(call.ObjectName)
		if call.IsBehaviorCall() {
			behaviorType = scope.BehaviorType(call.ObjectName, call.BehaviorName)
		}
	}
	if behaviorType != "" {
		return platform.BehaviorScope(objectType, behaviorType)
	}
	return platform.ObjectScope(objectType)
}

func valueTypeOf(t string) string {
	if t == metadata.ValueString || metadata.ExpressionType(t) == metadata.ValueString {
		return metadata.ValueString
	}
	return metadata.ValueNumber
}
