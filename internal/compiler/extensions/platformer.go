package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// PlatformBehavior is the extension of the platformer character behavior
const PlatformBehavior = "PlatformBehavior"

// DeclarePlatformBehavior declares the PlatformBehavior::PlatformerObjectBehavior
// behavior type
func DeclarePlatformBehavior(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(PlatformBehavior, PlatformBehavior, "Platform behavior",
		"Platformer character that can jump and run on platforms.", "Florian Rival", "MIT")
	b := ext.AddBehavior("PlatformerObjectBehavior", "Platformer character", "PlatformerObject",
		"Jump and run on platforms.", "CppPlatform/Extensions/platformerobjecticon.png", "").
		SetClassName("PlatformerObjectRuntimeBehavior").
		SetIncludeFile(runtime(target, "platformerobjectruntimebehavior.js", "PlatformBehavior/PlatformerObjectRuntimeBehavior.h"))

	getMaxSpeed := runtime(target, "getMaxSpeed", "GetMaxSpeed")

	b.AddCondition("IsJumping", "Is jumping", "Check if the object is jumping.", "_PARAM0_ is jumping", "", "CppPlatform/Extensions/platformerobjecticon24.png", "CppPlatform/Extensions/platformerobjecticon16.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddParameter(metadata.ParamBehavior, "Behavior", "PlatformBehavior::PlatformerObjectBehavior", false).
		SetFunctionName(runtime(target, "isJumping", "IsJumping"))
	modification(b.AddAction("MaxSpeed", "Maximum speed", "Change the maximum speed of the object.", "the maximum speed of _PARAM0_", "Options", "CppPlatform/Extensions/platformerobjecticon24.png", "CppPlatform/Extensions/platformerobjecticon16.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddParameter(metadata.ParamBehavior, "Behavior", "PlatformBehavior::PlatformerObjectBehavior", false),
		metadata.ValueNumber, runtime(target, "setMaxSpeed", "SetMaxSpeed"), getMaxSpeed)
	b.AddExpression("MaxSpeed", "Maximum speed", "Maximum speed", "Options", "CppPlatform/Extensions/platformerobjecticon16.png").
		AddParameter(metadata.ParamObject, "Object", "", false).
		AddParameter(metadata.ParamBehavior, "Behavior", "PlatformBehavior::PlatformerObjectBehavior", false).
		SetFunctionName(getMaxSpeed)

	return ext
}
