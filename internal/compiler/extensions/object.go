package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// BaseObject is the extension declaring the base object type, whose
// members apply to objects of every type
const BaseObject = "BuiltinObject"

// DeclareBaseObject declares the base object type "" and the free
// instructions creating and counting objects.
func DeclareBaseObject(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(BaseObject, "", "Features for all objects",
		"Common features that can be used for all objects.", "Florian Rival", "MIT")
	obj := ext.AddObject("", "Base object", "Base object", "res/objeticon24.png").
		SetClassName("RuntimeObject").
		SetIncludeFile(runtime(target, "runtimeobject.js", "GDCpp/Runtime/RuntimeObject.h"))

	for _, axis := range []struct{ name, getter, setter string }{
		{"X", runtime(target, "getX", "GetX"), runtime(target, "setX", "SetX")},
		{"Y", runtime(target, "getY", "GetY"), runtime(target, "setY", "SetY")},
		{"Angle", runtime(target, "getAngle", "GetAngle"), runtime(target, "setAngle", "SetAngle")},
	} {
		condition := "Pos" + axis.name
		if axis.name == "Angle" {
			condition = "Angle"
		}
		comparison(obj.AddCondition(condition, axis.name+" position", "Compare the "+axis.name+" of the object.", "the "+axis.name+" of _PARAM0_", "Position", "res/conditions/position24.png", "res/conditions/position.png").
			AddParameter(metadata.ParamObject, "Object", "", false), metadata.ValueNumber).
			SetFunctionName(axis.getter)

		modification(obj.AddAction("Set"+axis.name, axis.name+" position", "Change the "+axis.name+" of an object.", "the "+axis.name+" of _PARAM0_", "Position", "res/actions/position24.png", "res/actions/position.png").
			AddParameter(metadata.ParamObject, "Object", "", false), metadata.ValueNumber, axis.setter, axis.getter)

		obj.AddExpression(axis.name, axis.name+" position", "Value of "+axis.name, "Position", "res/actions/position.png").
			AddParameter(metadata.ParamObject, "Object", "", false).
			SetFunctionName(axis.getter)
	}

	comparison(obj.AddCondition("VarObjet", "Value of an object variable", "Compare the value of a variable of an object.", "the variable _PARAM1_ of _PARAM0_", "Variables", "res/conditions/var24.png", "res/conditions/var.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddParameter(metadata.ParamObjectVariable, "Variable", "", false), metadata.ValueNumber).
		SetFunctionName(runtime(target, "gdjs.RuntimeObject.getVariableNumber", "GetVariableValue"))
	comparison(obj.AddCondition("VarObjetTxt", "Text of an object variable", "Compare the text of a variable of an object.", "the text of variable _PARAM1_ of _PARAM0_", "Variables", "res/conditions/var24.png", "res/conditions/var.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddParameter(metadata.ParamObjectVariable, "Variable", "", false), metadata.ValueString).
		SetFunctionName(runtime(target, "gdjs.RuntimeObject.getVariableString", "GetVariableString"))
	modification(obj.AddAction("ModVarObjet", "Value of an object variable", "Change the value of a variable of an object.", "the variable _PARAM1_ of _PARAM0_", "Variables", "res/actions/var24.png", "res/actions/var.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddParameter(metadata.ParamObjectVariable, "Variable", "", false), metadata.ValueNumber,
		runtime(target, "gdjs.RuntimeObject.setVariableNumber", "SetVariableValue"),
		runtime(target, "gdjs.RuntimeObject.getVariableNumber", "GetVariableValue"))

	obj.AddCondition("Visible", "Visibility of an object", "Check if an object is visible.", "_PARAM0_ is visible", "Visibility", "res/conditions/visibilite24.png", "res/conditions/visibilite.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		SetFunctionName(runtime(target, "isVisible", "IsVisible"))
	obj.AddAction("Cache", "Hide", "Hide the specified object.", "Hide _PARAM0_", "Visibility", "res/actions/visibilite24.png", "res/actions/visibilite.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddCodeOnlyParameter(metadata.ParamInlineCode, "true").
		SetFunctionName(runtime(target, "hide", "SetHidden"))
	obj.AddAction("Montre", "Show", "Show the specified object.", "Show _PARAM0_", "Visibility", "res/actions/visibilite24.png", "res/actions/visibilite.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddCodeOnlyParameter(metadata.ParamInlineCode, "false").
		SetFunctionName(runtime(target, "hide", "SetHidden"))

	obj.AddAction("Delete", "Delete the object", "Delete the specified object.", "Delete _PARAM0_", "Objects", "res/actions/delete24.png", "res/actions/delete.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		SetFunctionName(runtime(target, "deleteFromScene", "DeleteFromScene"))

	ext.AddAction("Create", "Create an object", "Create an object at specified position", "Create object _PARAM1_ at position _PARAM2_;_PARAM3_", "Objects", "res/actions/create24.png", "res/actions/create.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		AddParameter(metadata.ParamObjectListOrEmpty, "Object to create", "", false).
		AddParameter(metadata.ParamExpression, "X position", "", false).
		AddParameter(metadata.ParamExpression, "Y position", "", false).
		AddParameter(metadata.ParamLayer, "Layer", "", true).SetDefaultValue(`""`).
		SetFunctionName(runtime(target, "gdjs.evtTools.object.createObjectOnScene", "CreateObjectOnScene"))

	comparison(ext.AddCondition("NbObjet", "Number of objects", "Count how many of the specified objects are currently picked.", "the number of _PARAM0_ objects", "Objects", "res/conditions/nbObjet24.png", "res/conditions/nbObjet.png").
		AddParameter(metadata.ParamObjectList, "Object", "", false), metadata.ValueNumber).
		SetFunctionName(runtime(target, "gdjs.evtTools.object.getPickedInstancesCount", "PickedObjectsCount"))
	ext.AddExpression("Count", "Number of objects", "Count the number of the specified objects being currently picked.", "Objects", "res/conditions/nbObjet.png").
		AddParameter(metadata.ParamObjectList, "Object", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.object.getPickedInstancesCount", "PickedObjectsCount"))

	return ext
}
