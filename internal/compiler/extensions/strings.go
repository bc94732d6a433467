package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// StringInstructions is the extension of the text manipulation functions
const StringInstructions = "BuiltinStringInstructions"

// DeclareStringInstructions declares StrLength, ToString, ToNumber and
// SubStr
func DeclareStringInstructions(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(StringInstructions, "", "Text manipulation",
		"Functions to manipulate texts.", "Florian Rival", "MIT")

	ext.AddExpression("StrLength", "Length of a text", "Length of a text", "Manipulation of text", "res/conditions/toujours24_black.png").
		AddParameter(metadata.ParamString, "Text", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.string.strLen", "StrLen"))
	ext.AddExpression("ToNumber", "Text > Number", "Convert the text to a number", "Conversion", "res/conditions/toujours24_black.png").
		AddParameter(metadata.ParamString, "Text to convert to a number", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.common.toNumber", "ToDouble"))
	ext.AddStrExpression("ToString", "Number > Text", "Convert the result of the expression to text", "Conversion", "res/conditions/toujours24_black.png").
		AddParameter(metadata.ParamExpression, "Expression to be converted to text", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.common.toString", "ToString"))
	ext.AddStrExpression("SubStr", "Get a portion of a text", "Get a portion of a text", "Manipulation of text", "res/conditions/toujours24_black.png").
		AddParameter(metadata.ParamString, "Text", "", false).
		AddParameter(metadata.ParamExpression, "Start position of the portion (the first letter is at position 0)", "", false).
		AddParameter(metadata.ParamExpression, "Length of the portion", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.string.subStr", "StrSubStr"))

	return ext
}
