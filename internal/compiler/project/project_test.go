package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/events"
)

const sampleJSON = `{
  "name": "Platformer",
  "objects": [{"name": "Hud", "type": "TextObject::Text"}],
  "variables": [{"name": "HighScore", "type": "number", "value": "0"}],
  "objectsGroups": [{"name": "Everything", "objects": ["Hud", "Player"]}],
  "layouts": [
    {
      "name": "Level1",
      "objects": [
        {"name": "Player", "type": "Sprite", "behaviors": [{"name": "Platformer", "type": "PlatformBehavior::PlatformerObjectBehavior"}]},
        {"name": "Enemy", "type": "Sprite", "behaviors": [{"name": "Platformer", "type": "PlatformBehavior::PlatformerObjectBehavior"}]},
        {"name": "Coin", "type": ""}
      ],
      "objectsGroups": [
        {"name": "Characters", "objects": ["Player", "Enemy", "Player"]},
        {"name": "Mixed", "objects": ["Player", "Coin", "Ghost"]}
      ],
      "variables": [{"name": "Score", "type": "number"}],
      "events": [
        {
          "type": "BuiltinCommonInstructions::Standard",
          "conditions": [{"type": "PosX", "parameters": ["Player", "<", "100"]}],
          "actions": [{"type": "SetX", "parameters": ["Player", "+", "5"]}]
        }
      ]
    }
  ],
  "externalEvents": [
    {"name": "Shared", "associatedLayout": "Level1", "events": [{"type": "BuiltinCommonInstructions::Comment", "comment": "shared"}]}
  ],
  "eventsFunctionsExtensions": [
    {
      "name": "Tools",
      "eventsFunctions": [
        {
          "name": "Damage",
          "functionType": "Action",
          "parameters": [
            {"name": "Target", "type": "objectList", "supplementaryInformation": "Sprite"},
            {"name": "Amount", "type": "expression"}
          ],
          "properties": [{"name": "Multiplier", "type": "number", "value": "2"}]
        }
      ]
    }
  ]
}`

const sampleYAML = `
name: Platformer
layouts:
  - name: Level1
    objects:
      - name: Player
        type: Sprite
    events:
      - type: BuiltinCommonInstructions::Standard
        actions:
          - type: SetX
            parameters: [Player, "+", "5"]
`

const sampleTOML = `
name = "Platformer"

[[layouts]]
name = "Level1"

[[layouts.objects]]
name = "Player"
type = "Sprite"

[[layouts.events]]
type = "BuiltinCommonInstructions::Standard"

[[layouts.events.actions]]
type = "SetX"
parameters = ["Player", "+", "5"]
`

func mustDecode(t *testing.T, data string, format Format) *Project {
	t.Helper()
	p, err := Decode([]byte(data), format)
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", format, err)
	}
	return p
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatJSON, sampleJSON},
		{FormatYAML, sampleYAML},
		{FormatTOML, sampleTOML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			p := mustDecode(t, tt.data, tt.format)
			scene, ok := p.Scene("Level1")
			if !ok {
				t.Fatal("Expected scene Level1")
			}
			if len(scene.Events) != 1 {
				t.Fatalf("Expected 1 event, got %d", len(scene.Events))
			}
			action := scene.Events[0].Actions[0]
			if action.Type != "SetX" || len(action.Parameters) != 3 {
				t.Fatalf("Unexpected action %+v", action)
			}
			if got := action.Parameter(1).Text(); got != "+" {
				t.Errorf("Parameter(1) = %q, want +", got)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"game.json":  FormatJSON,
		"game.YAML":  FormatYAML,
		"game.yml":   FormatYAML,
		"game.toml":  FormatTOML,
		"dir/p.json": FormatJSON,
	}
	for path, want := range tests {
		if got, err := FormatOf(path); err != nil || got != want {
			t.Errorf("FormatOf(%s) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatOf("game.xml"); err == nil {
		t.Error("Expected an error for an unknown extension")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Name != "Platformer" {
		t.Errorf("Name = %q", p.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p := mustDecode(t, sampleJSON, FormatJSON)
	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(p, format)
		if err != nil {
			t.Fatalf("Encode(%s) error = %v", format, err)
		}
		again := mustDecode(t, string(data), format)
		if !reflect.DeepEqual(again.SceneNames(), p.SceneNames()) {
			t.Errorf("%s round trip lost scenes: %v", format, again.SceneNames())
		}
		scene, _ := again.Scene("Level1")
		if got := scene.Events[0].Conditions[0].Parameter(2).Text(); got != "100" {
			t.Errorf("%s round trip lost a parameter: %q", format, got)
		}
	}
}

func TestSceneScope(t *testing.T) {
	p := mustDecode(t, sampleJSON, FormatJSON)
	scope, err := p.SceneScope("Level1")
	if err != nil {
		t.Fatalf("SceneScope() error = %v", err)
	}

	if !scope.HasObject("Player") || !scope.HasObject("Hud") || !scope.HasObject("Characters") {
		t.Error("Scene and global objects and groups must be visible")
	}
	if scope.IsGroup("Player") || !scope.IsGroup("Characters") {
		t.Error("IsGroup misclassifies names")
	}

	tests := []struct {
		name    string
		members []string
		typ     string
	}{
		{"Player", []string{"Player"}, "Sprite"},
		{"Characters", []string{"Player", "Enemy"}, "Sprite"},
		{"Mixed", []string{"Player", "Coin"}, ""},
		{"Everything", []string{"Hud", "Player"}, ""},
		{"Nobody", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scope.GroupMembers(tt.name); !reflect.DeepEqual(got, tt.members) {
				t.Errorf("GroupMembers() = %v, want %v", got, tt.members)
			}
			if got := scope.ObjectType(tt.name); got != tt.typ {
				t.Errorf("ObjectType() = %q, want %q", got, tt.typ)
			}
		})
	}

	if got := scope.BehaviorType("Characters", "Platformer"); got != "PlatformBehavior::PlatformerObjectBehavior" {
		t.Errorf("BehaviorType(Characters) = %q", got)
	}
	if got := scope.BehaviorType("Mixed", "Platformer"); got != "" {
		t.Errorf("Coin has no behavior, got %q", got)
	}

	if !scope.HasSceneVariable("Score") || scope.HasSceneVariable("HighScore") {
		t.Error("Scene variables misreported")
	}
	if !scope.HasGlobalVariable("HighScore") {
		t.Error("Global variables must be visible from scenes")
	}

	_, err = p.SceneScope("Nope")
	ce, ok := err.(*errors.CompilerError)
	if !ok || ce.Code != errors.ErrSceneNotFound {
		t.Errorf("Expected a PRJ001 error, got %v", err)
	}
}

func TestFunctionScope(t *testing.T) {
	p := mustDecode(t, sampleJSON, FormatJSON)
	scope, err := p.FunctionScope("Tools", "Damage")
	if err != nil {
		t.Fatalf("FunctionScope() error = %v", err)
	}

	if !scope.IsFunction {
		t.Error("Expected a function scope")
	}
	if !scope.IsObject("Target") || scope.ObjectType("Target") != "Sprite" {
		t.Error("Object parameters must become typed objects")
	}
	if !scope.HasParameter("Amount") || scope.HasParameter("Target") {
		t.Error("Only value parameters are parameters")
	}
	if !scope.HasProperty("Multiplier") {
		t.Error("Properties must be visible")
	}

	if _, err := p.FunctionScope("Tools", "Heal"); err == nil {
		t.Error("Expected an error for a missing function")
	}
}

func TestSceneEvents(t *testing.T) {
	p := mustDecode(t, sampleJSON, FormatJSON)
	scene, _ := p.Scene("Level1")

	list := p.SceneEvents(scene)
	if len(list) != 2 {
		t.Fatalf("Expected scene events plus external events, got %d", len(list))
	}
	if list[1].Comment != "shared" {
		t.Errorf("External events must come last, got %+v", list[1])
	}

	lists := 0
	p.AllEvents(func(l []*events.Event) { lists++ })
	if lists != 3 {
		t.Errorf("AllEvents() visited %d lists, want 3", lists)
	}
}

func TestValidate(t *testing.T) {
	p := mustDecode(t, sampleJSON, FormatJSON)
	p.Scenes[0].Variables = append(p.Scenes[0].Variables, Variable{Name: "Coin"})

	errs := p.Validate()
	if errs.HasErrors() {
		t.Errorf("Validate() reports warnings only, got %s", errs.Error())
	}
	if got := len(errs.WithCode(errors.ErrUnknownGroupMember)); got != 1 {
		t.Errorf("Expected 1 unknown group member (Ghost), got %d", got)
	}
	if got := len(errs.WithCode(errors.ErrNameCollision)); got != 1 {
		t.Errorf("Expected 1 name collision (Coin), got %d", got)
	}
}
