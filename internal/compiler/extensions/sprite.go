package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// Sprite is the extension of the animated sprite object
const Sprite = "Sprite"

// DeclareSprite declares the Sprite object type
func DeclareSprite(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(Sprite, "", "Sprite",
		"Sprite are animated objects which can be used for most elements of a game.", "Florian Rival", "MIT")
	obj := ext.AddObject("Sprite", "Sprite", "Animated object which can be used for most elements of a game", "CppPlatform/Extensions/spriteicon.png").
		SetClassName("RuntimeSpriteObject").
		SetIncludeFile(runtime(target, "spriteruntimeobject.js", "GDCpp/Extensions/Builtin/SpriteExtension/RuntimeSpriteObject.h"))

	getAnimation := runtime(target, "getAnimation", "GetCurrentAnimation")
	setAnimation := runtime(target, "setAnimation", "SetCurrentAnimation")
	getOpacity := runtime(target, "getOpacity", "GetOpacity")
	setOpacity := runtime(target, "setOpacity", "SetOpacity")

	comparison(obj.AddCondition("Animation", "Animation (by number)", "Compare the number of the animation played by the object.", "the number of the animation of _PARAM0_", "Animations and images", "res/conditions/animation24.png", "res/conditions/animation.png").
		AddParameter(metadata.ParamObject, "Object", "Sprite", false), metadata.ValueNumber).
		SetFunctionName(getAnimation)
	modification(obj.AddAction("ChangeAnimation", "Change the animation", "Change the animation of the object, using the animation number.", "the number of the animation of _PARAM0_", "Animations and images", "res/actions/animation24.png", "res/actions/animation.png").
		AddParameter(metadata.ParamObject, "Object", "Sprite", false), metadata.ValueNumber, setAnimation, getAnimation)

	comparison(obj.AddCondition("Opacity", "Opacity", "Compare the opacity of a Sprite, between 0 (fully transparent) to 255 (opaque).", "the opacity of _PARAM0_", "Visibility", "res/conditions/opacity24.png", "res/conditions/opacity.png").
		AddParameter(metadata.ParamObject, "Object", "Sprite", false), metadata.ValueNumber).
		SetFunctionName(getOpacity)
	modification(obj.AddAction("Opacity", "Change sprite opacity", "Change the opacity of a Sprite. 0 is fully transparent, 255 is opaque (default).", "the opacity of _PARAM0_", "Visibility", "res/actions/opacity24.png", "res/actions/opacity.png").
		AddParameter(metadata.ParamObject, "Object", "Sprite", false), metadata.ValueNumber, setOpacity, getOpacity)

	obj.AddExpression("Animation", "Animation of the object", "Animation of the object", "Animations and images", "res/actions/animation.png").
		AddParameter(metadata.ParamObject, "Object", "Sprite", false).
		SetFunctionName(getAnimation)
	obj.AddStrExpression("AnimationName", "Animation name", "Name of the animation of the object", "Animations and images", "res/actions/animation.png").
		AddParameter(metadata.ParamObject, "Object", "Sprite", false).
		SetFunctionName(runtime(target, "getAnimationName", "GetCurrentAnimationName"))

	return ext
}
