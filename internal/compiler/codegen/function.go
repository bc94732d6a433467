package codegen

import (
	"fmt"

	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// GenerateFunctionCode generates the complete code of an events-based
// function. Its parameters and properties are read through the function
// context.
func (g *Generator) GenerateFunctionCode(fn *project.EventsFunction) (code string, includes []string) {
	u := g.generate(fn.Name, fn.Events)
	u.Function = fn
	if g.failed {
		return "", nil
	}
	return g.backend.WrapFunction(u), u.Root.IncludeFiles()
}

// GenerateEventsFunctionCode generates the code of fn. fn should belong to
// one of the functions extensions of proj; global objects and variables
// are only visible when it does.
func GenerateEventsFunctionCode(p *platform.Platform, proj *project.Project, fn *project.EventsFunction, backend Backend) (string, []string, error) {
	if fn == nil {
		return "", nil, fmt.Errorf("no events function to generate")
	}

	extension := functionsExtensionOf(proj, fn)
	name := fn.Name
	if extension != "" {
		name = extension + "::" + fn.Name
	}

	g := NewGenerator(p, project.NewFunctionScope(proj, name, fn), backend.ForFunction(extension, fn.Name))
	code, includes := g.GenerateFunctionCode(fn)
	if g.Failed() {
		return "", nil, g.Diagnostics()
	}
	return code, includes, nil
}

func functionsExtensionOf(proj *project.Project, fn *project.EventsFunction) string {
	if proj == nil {
		return ""
	}
	for i := range proj.FunctionsExtensions {
		ext := &proj.FunctionsExtensions[i]
		for j := range ext.Functions {
			if &ext.Functions[j] == fn {
				return ext.Name
			}
		}
	}
	return ""
}
