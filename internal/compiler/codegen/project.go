package codegen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// Result is the outcome of generating one scene or function. Code is
// empty when Failed is set.
type Result struct {
	Name        string
	Code        string
	Includes    []string
	Diagnostics errors.ErrorList
	Failed      bool
}

// Project generates every scene and function of a project for one target.
//
// Thread Safety: scenes are generated concurrently, each by its own
// Generator; the Platform is only read.
type Project struct {
	platform *platform.Platform
	project  *project.Project
	backend  Backend
}

// NewProject prepares the generation of proj
func NewProject(p *platform.Platform, proj *project.Project, backend Backend) *Project {
	return &Project{platform: p, project: proj, backend: backend}
}

// GenerateProjectCode generates the given scenes, or every scene when none
// is given. Results follow the order of scenes. Generation failures are
// reported in the results; the error is only set for an unknown scene or
// a cancelled ctx.
func (pg *Project) GenerateProjectCode(ctx context.Context, scenes ...string) ([]Result, error) {
	if len(scenes) == 0 {
		scenes = pg.project.SceneNames()
	}
	for _, name := range scenes {
		if _, ok := pg.project.Scene(name); !ok {
			return nil, errors.NewSceneNotFound(name)
		}
	}

	results := make([]Result, len(scenes))
	group, ctx := errgroup.WithContext(ctx)
	for i, name := range scenes {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = pg.generateScene(name)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (pg *Project) generateScene(name string) Result {
	scene, _ := pg.project.Scene(name)
	scope, err := pg.project.SceneScope(name)
	if err != nil {
		return Result{Name: name, Failed: true, Diagnostics: errors.ErrorList{errors.NewSceneNotFound(name)}}
	}
	g := NewGenerator(pg.platform, scope, pg.backend.ForScene(name))
	code, includes := g.GenerateSceneCode(name, pg.project.SceneEvents(scene))
	return Result{
		Name:        name,
		Code:        code,
		Includes:    includes,
		Diagnostics: g.Diagnostics(),
		Failed:      g.Failed(),
	}
}

// GenerateFunctionsCode generates every events-based function of the
// project, named Extension::Function in the results
func (pg *Project) GenerateFunctionsCode(ctx context.Context) ([]Result, error) {
	type job struct {
		extension string
		fn        *project.EventsFunction
	}
	var jobs []job
	for i := range pg.project.FunctionsExtensions {
		ext := &pg.project.FunctionsExtensions[i]
		for j := range ext.Functions {
			jobs = append(jobs, job{extension: ext.Name, fn: &ext.Functions[j]})
		}
	}

	results := make([]Result, len(jobs))
	group, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := j.extension + "::" + j.fn.Name
			g := NewGenerator(pg.platform, project.NewFunctionScope(pg.project, name, j.fn), pg.backend.ForFunction(j.extension, j.fn.Name))
			code, includes := g.GenerateFunctionCode(j.fn)
			results[i] = Result{
				Name:        name,
				Code:        code,
				Includes:    includes,
				Diagnostics: g.Diagnostics(),
				Failed:      g.Failed(),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
