package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// TextObject is the extension of the text object
const TextObject = "TextObject"

// DeclareTextObject declares the TextObject::Text object type
func DeclareTextObject(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(TextObject, TextObject, "Text object",
		"An object that can be used to display any text on the screen.", "Florian Rival", "MIT")
	obj := ext.AddObject("Text", "Text", "Displays a text on the screen.", "CppPlatform/Extensions/texticon.png").
		SetClassName("RuntimeTextObject").
		SetIncludeFile(runtime(target, "textruntimeobject.js", "TextObject/TextObject.h"))

	getString := runtime(target, "getString", "GetString")
	getSize := runtime(target, "getCharacterSize", "GetCharacterSize")

	comparison(obj.AddCondition("String", "Text", "Compare the text of a text object.", "the text of _PARAM0_", "", "res/conditions/text24.png", "res/conditions/text.png").
		AddParameter(metadata.ParamObject, "Object", "TextObject::Text", false), metadata.ValueString).
		SetFunctionName(getString)
	modification(obj.AddAction("String", "Text", "Modify the text of a text object.", "the text of _PARAM0_", "", "res/actions/text24.png", "res/actions/text.png").
		AddParameter(metadata.ParamObject, "Object", "TextObject::Text", false), metadata.ValueString,
		runtime(target, "setString", "SetString"), getString)

	comparison(obj.AddCondition("Size", "Size", "Compare the size of the text.", "the size of the text of _PARAM0_", "Style", "res/conditions/characterSize24.png", "res/conditions/characterSize.png").
		AddParameter(metadata.ParamObject, "Object", "TextObject::Text", false), metadata.ValueNumber).
		SetFunctionName(getSize)
	modification(obj.AddAction("Size", "Size", "Change the size of the text.", "the size of the text of _PARAM0_", "Style", "res/actions/characterSize24.png", "res/actions/characterSize.png").
		AddParameter(metadata.ParamObject, "Object", "TextObject::Text", false), metadata.ValueNumber,
		runtime(target, "setCharacterSize", "SetCharacterSize"), getSize)

	obj.AddStrExpression("String", "Text", "Text", "", "res/texticon.png").
		AddParameter(metadata.ParamObject, "Object", "TextObject::Text", false).
		SetFunctionName(getString)

	return ext
}
