package project

import (
	"github.com/conduit-lang/eventc/internal/compiler/errors"
)

// Validate reports the problems of the project model that code generation
// works around: names shared by an object and a variable, and groups
// listing objects that do not exist. Every entry is a warning.
func (p *Project) Validate() errors.ErrorList {
	var errs errors.ErrorList

	for i := range p.Scenes {
		scene := &p.Scenes[i]
		scope, err := p.SceneScope(scene.Name)
		if err != nil {
			continue
		}

		for _, g := range append(append([]Group(nil), p.Groups...), scene.Groups...) {
			for _, member := range g.Objects {
				if !scope.IsObject(member) {
					errs = append(errs, errors.NewUnknownGroupMember(scene.Name, g.Name, member))
				}
			}
		}

		for _, v := range scene.Variables {
			if scope.HasObject(v.Name) {
				errs = append(errs, errors.NewNameCollision(scene.Name, v.Name, "object", "scene variable"))
			}
		}
		for _, v := range p.Variables {
			if scope.HasObject(v.Name) {
				errs = append(errs, errors.NewNameCollision(scene.Name, v.Name, "object", "global variable"))
			} else if scope.HasSceneVariable(v.Name) {
				errs = append(errs, errors.NewNameCollision(scene.Name, v.Name, "scene variable", "global variable"))
			}
		}
	}

	for _, ext := range p.FunctionsExtensions {
		for i := range ext.Functions {
			fn := &ext.Functions[i]
			name := ext.Name + "::" + fn.Name
			scope := NewFunctionScope(p, name, fn)
			for _, prop := range fn.Properties {
				if scope.HasObject(prop.Name) {
					errs = append(errs, errors.NewNameCollision(name, prop.Name, "object", "property"))
				}
			}
			for _, param := range fn.Parameters {
				if scope.HasProperty(param.Name) && !isObjectParameter(param.Type) {
					errs = append(errs, errors.NewNameCollision(name, param.Name, "property", "parameter"))
				}
			}
		}
	}

	return errs
}
