package extensions

import (
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// MathematicalTools is the extension of the mathematical functions
const MathematicalTools = "BuiltinMathematicalTools"

// DeclareMathematicalTools declares abs, sin, cos, sqrt, min, max, random
// and floor
func DeclareMathematicalTools(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(MathematicalTools, "", "Mathematical tools",
		"Mathematical functions usable in expressions.", "Florian Rival", "MIT")

	unary := []struct{ name, fullName, js, native string }{
		{"abs", "Absolute value", "Math.abs", "std::abs"},
		{"sin", "Sine", "Math.sin", "std::sin"},
		{"cos", "Cosine", "Math.cos", "std::cos"},
		{"sqrt", "Square root", "Math.sqrt", "std::sqrt"},
		{"floor", "Floor", "Math.floor", "std::floor"},
	}
	for _, fn := range unary {
		ext.AddExpression(fn.name, fn.fullName, fn.fullName, "Mathematical functions", "res/mathfunction.png").
			AddParameter(metadata.ParamExpression, "Expression", "", false).
			SetFunctionName(runtime(target, fn.js, fn.native))
	}

	ext.AddExpression("min", "Minimum of two numbers", "Minimum of two numbers", "Mathematical functions", "res/mathfunction.png").
		AddParameter(metadata.ParamExpression, "First expression", "", false).
		AddParameter(metadata.ParamExpression, "Second expression", "", false).
		SetFunctionName(runtime(target, "Math.min", "std::min"))
	ext.AddExpression("max", "Maximum of two numbers", "Maximum of two numbers", "Mathematical functions", "res/mathfunction.png").
		AddParameter(metadata.ParamExpression, "First expression", "", false).
		AddParameter(metadata.ParamExpression, "Second expression", "", false).
		SetFunctionName(runtime(target, "Math.max", "std::max"))
	ext.AddExpression("random", "Random value", "Random value", "Random", "res/dice-6.svg").
		AddParameter(metadata.ParamExpression, "Maximum value", "", false).
		SetFunctionName(runtime(target, "gdjs.random", "GDpriv::CommonInstructions::Random"))

	return ext
}
