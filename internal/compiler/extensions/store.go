package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// StoreExample is an example extension as distributed by the extension
// store. Its instructions only count as used when they ship an include file.
const StoreExample = "StoreExample"

// DeclareStoreExample declares the example store extension
func DeclareStoreExample(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(StoreExample, StoreExample, "Example extension",
		"Example showing how an extension from the store declares instructions.", "GDevelop community", "MIT")

	ext.AddAction("Log", "Log a message", "Write a message in the console.", "Log _PARAM0_", "", "res/actions/debug24.png", "res/actions/debug.png").
		AddParameter(metadata.ParamString, "Message", "", false).
		SetFunctionName(runtime(target, "console.log", "std::puts"))
	ext.AddAction("Track", "Track an event", "Send an analytics event.", "Track _PARAM0_", "", "res/actions/analytics24.png", "res/actions/analytics.png").
		AddParameter(metadata.ParamString, "Event name", "", false).
		SetFunctionName(runtime(target, "gdjs.evtTools.storeExample.track", "StoreExample::Track")).
		SetIncludeFile(runtime(target, "Extensions/StoreExample/storeexampletools.js", "StoreExample/StoreExampleTools.h"))

	return ext
}
