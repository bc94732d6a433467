package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// Variables is the extension reading and changing scene and global variables
const Variables = "BuiltinVariables"

// DeclareVariables declares the scene and global variable conditions,
// actions and expressions
func DeclareVariables(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(Variables, "", "Variables features",
		"Compare and change scene and global variables.", "Florian Rival", "MIT")

	getNumber := runtime(target, "gdjs.evtTools.variable.getVariableNumber", "GetVariableValue")
	setNumber := runtime(target, "gdjs.evtTools.variable.setVariableNumber", "SetVariableValue")
	getString := runtime(target, "gdjs.evtTools.variable.getVariableString", "GetVariableString")
	setString := runtime(target, "gdjs.evtTools.variable.setVariableString", "SetVariableString")

	for _, scope := range []struct {
		suffix, label, param string
	}{
		{"Scene", "scene", metadata.ParamSceneVariable},
		{"Global", "global", metadata.ParamGlobalVariable},
	} {
		comparison(ext.AddCondition("Var"+scope.suffix, "Value of a "+scope.label+" variable", "Compare the value of a "+scope.label+" variable.", "the "+scope.label+" variable _PARAM0_", "Variables", "res/conditions/var24.png", "res/conditions/var.png").
			AddParameter(scope.param, "Variable", "", false), metadata.ValueNumber).
			SetFunctionName(getNumber)
		comparison(ext.AddCondition("Var"+scope.suffix+"Txt", "Text of a "+scope.label+" variable", "Compare the text of a "+scope.label+" variable.", "the text of "+scope.label+" variable _PARAM0_", "Variables", "res/conditions/var24.png", "res/conditions/var.png").
			AddParameter(scope.param, "Variable", "", false), metadata.ValueString).
			SetFunctionName(getString)

		modification(ext.AddAction("ModVar"+scope.suffix, "Value of a "+scope.label+" variable", "Modify the value of a "+scope.label+" variable.", "the "+scope.label+" variable _PARAM0_", "Variables", "res/actions/var24.png", "res/actions/var.png").
			AddParameter(scope.param, "Variable", "", false), metadata.ValueNumber, setNumber, getNumber)
		modification(ext.AddAction("ModVar"+scope.suffix+"Txt", "String of a "+scope.label+" variable", "Modify the text of a "+scope.label+" variable.", "the text of "+scope.label+" variable _PARAM0_", "Variables", "res/actions/var24.png", "res/actions/var.png").
			AddParameter(scope.param, "Variable", "", false), metadata.ValueString, setString, getString)
	}

	ext.AddExpression("Variable", "Value of a scene variable", "Value of a scene variable", "Variables", "res/actions/var.png").
		AddParameter(metadata.ParamSceneVariable, "Variable", "", false).
		SetFunctionName(getNumber)
	ext.AddStrExpression("VariableString", "Text of a scene variable", "Text of a scene variable", "Variables", "res/actions/var.png").
		AddParameter(metadata.ParamSceneVariable, "Variable", "", false).
		SetFunctionName(getString)
	ext.AddExpression("GlobalVariable", "Value of a global variable", "Value of a global variable", "Variables", "res/actions/var.png").
		AddParameter(metadata.ParamGlobalVariable, "Name of the global variable", "", false).
		SetFunctionName(getNumber)
	ext.AddStrExpression("GlobalVariableString", "Text of a global variable", "Text of a global variable", "Variables", "res/actions/var.png").
		AddParameter(metadata.ParamGlobalVariable, "Variable", "", false).
		SetFunctionName(getString)

	return ext
}
