package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// Scene is the extension of the scene and timer features
const Scene = "BuiltinScene"

// DeclareScene declares scene changes, timers and the scene expressions
func DeclareScene(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(Scene, "", "Scene",
		"Actions and conditions to manipulate the scene and its timers.", "Florian Rival", "MIT")

	ext.AddAction("Scene", "Change the scene", "Stop this scene and start the specified one instead.", "Change to scene _PARAM1_", "", "res/actions/replaceScene24.png", "res/actions/replaceScene.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		AddParameter(metadata.ParamSceneName, "Name of the new scene", "", false).
		AddParameter(metadata.ParamYesOrNo, "Stop any other paused scenes?", "", true).SetDefaultValue("no").
		SetFunctionName(runtime(target, "gdjs.evtTools.runtimeScene.replaceScene", "ChangeScene"))

	ext.AddCondition("DepartScene", "At the beginning of the scene", "Is true only when the scene just begins.", "At the beginning of the scene", "", "res/conditions/depart24.png", "res/conditions/depart.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		SetFunctionName(runtime(target, "gdjs.evtTools.runtimeScene.sceneJustBegins", "SceneJustBegins"))

	ext.AddCondition("Timer", "Value of a scene timer", "Test the elapsed time of a scene timer.", "The timer _PARAM2_ is greater than _PARAM1_ seconds", "Timers and time", "res/conditions/timer24.png", "res/conditions/timer.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		AddParameter(metadata.ParamExpression, "Time in seconds", "", false).
		AddParameter(metadata.ParamIdentifier, "Timer's name", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.runtimeScene.timerElapsedTime", "TimerElapsedTime"))
	ext.AddAction("ResetTimer", "Start (or reset) a scene timer", "Reset the specified scene timer.", "Start (or reset) the timer _PARAM1_", "Timers and time", "res/actions/timer24.png", "res/actions/timer.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		AddParameter(metadata.ParamIdentifier, "Timer's name", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.runtimeScene.resetTimer", "ResetTimer"))

	ext.AddStrExpression("SceneName", "Current scene name", "Name of the current scene", "Scene", "res/actions/texte.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		SetFunctionName(runtime(target, "gdjs.evtTools.runtimeScene.getSceneName", "GetSceneName"))
	ext.AddExpression("TimeDelta", "Time elapsed since the last frame", "Time elapsed since the last frame rendered on screen", "Timers and time", "res/actions/time.png").
		AddCodeOnlyParameter(metadata.ParamCurrentScene, "").
		SetFunctionName(runtime(target, "gdjs.evtTools.runtimeScene.getElapsedTimeInSeconds", "GetElapsedTimeInSeconds"))

	return ext
}
