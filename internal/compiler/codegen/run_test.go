package codegen

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dop251/goja"

	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
)

// runtimeStub is the part of the web runtime the generated scenes call.
// Objects record every call changing them in log; touching a deleted
// object throws.
const runtimeStub = `
var gdjs = {
  copyArray: function(src, dst) {
    dst.length = 0;
    for (var i = 0; i < src.length; ++i) dst.push(src[i]);
  },
  Hashtable: { newFrom: function(items) { return items; } },
  evtTools: { object: {
    getPickedInstancesCount: function(lists) {
      var n = 0;
      for (var name in lists) n += lists[name].length;
      return n;
    }
  } }
};
var log = [];

function RuntimeObject(name, id, x) {
  this.name = name; this.id = id; this.x = x; this.y = 0; this.deleted = false;
}
RuntimeObject.prototype.touch = function(call) {
  if (this.deleted) throw new Error(call + " on deleted object " + this.id);
  log.push(this.id + "." + call);
};
RuntimeObject.prototype.getX = function() { return this.x; };
RuntimeObject.prototype.getY = function() { return this.y; };
RuntimeObject.prototype.setX = function(x) { this.touch("setX(" + x + ")"); this.x = x; };
RuntimeObject.prototype.setY = function(y) { this.touch("setY(" + y + ")"); this.y = y; };
RuntimeObject.prototype.deleteFromScene = function(scene) {
  this.touch("delete");
  scene.remove(this);
  this.deleted = true;
};

function obj(name, id, x) { return new RuntimeObject(name, id, x); }

function Scene(objects) { this.objects = objects; }
Scene.prototype.getObjects = function(name) {
  return this.objects[name] || (this.objects[name] = []);
};
Scene.prototype.remove = function(o) {
  var list = this.getObjects(o.name);
  var i = list.indexOf(o);
  if (i >= 0) list.splice(i, 1);
};
Scene.prototype.getOnceTriggers = function() {
  return { startNewFrame: function() {}, triggerOnce: function() { return true; } };
};
`

// runFrame generates the Level scene, runs one frame of it against the
// runtime stub and returns the recorded calls. objects is the JS literal
// mapping object names to their instances.
func runFrame(t *testing.T, objects string, list ...*events.Event) []string {
	t.Helper()
	g := newTestGenerator(t, platform.TargetJS)
	code, _ := g.GenerateSceneCode("Level", list)
	if g.Failed() {
		t.Fatalf("unexpected failure: %v", g.Diagnostics())
	}

	vm := goja.New()
	script := runtimeStub + code +
		"var runtimeScene = new Scene(" + objects + ");\n" +
		"gdjs.LevelCode.func(runtimeScene);\n"
	if _, err := vm.RunString(script); err != nil {
		t.Fatalf("running the scene: %v\n--- code ---\n%s", err, code)
	}

	var calls []string
	for _, call := range vm.Get("log").Export().([]interface{}) {
		calls = append(calls, fmt.Sprint(call))
	}
	return calls
}

func assertCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

const threePlayers = `{Player: [obj("Player", "A", 150), obj("Player", "B", 50), obj("Player", "C", 200)]}`

func TestRunConditionNarrowsPickedInstances(t *testing.T) {
	calls := runFrame(t, threePlayers,
		events.NewStandardEvent(
			[]*events.Instruction{events.NewInstruction("PosX", "Player", ">", "100")},
			action("SetY", "Player", "=", "1")),
		events.NewStandardEvent(nil, action("SetY", "Player", "=", "2")),
	)
	assertCalls(t, calls,
		"A.setY(1)", "C.setY(1)",
		"A.setY(2)", "B.setY(2)", "C.setY(2)",
	)
}

func TestRunSubEventSeesParentPicking(t *testing.T) {
	calls := runFrame(t, threePlayers,
		events.NewStandardEvent(
			[]*events.Instruction{events.NewInstruction("PosX", "Player", ">", "100")},
			nil,
			events.NewStandardEvent(
				[]*events.Instruction{events.NewInstruction("PosX", "Player", "<", "180")},
				action("SetY", "Player", "=", "Count(Player)"))),
	)
	assertCalls(t, calls, "A.setY(1)")
}

func TestRunForEachPicksOneInstancePerIteration(t *testing.T) {
	tests := []struct {
		name string
		ev   *events.Event
		want []string
	}{
		{
			name: "every instance",
			ev: &events.Event{
				Type:    events.ForEachEventType,
				Object:  "Player",
				Actions: action("SetY", "Player", "=", "Count(Player)"),
			},
			want: []string{"A.setY(1)", "B.setY(1)", "C.setY(1)"},
		},
		{
			name: "with a condition",
			ev: &events.Event{
				Type:       events.ForEachEventType,
				Object:     "Player",
				Conditions: []*events.Instruction{events.NewInstruction("PosX", "Player", ">", "100")},
				Actions:    action("SetY", "Player", "+", "Count(Player)"),
			},
			want: []string{"A.setY(1)", "C.setY(1)"},
		},
		{
			name: "over a group",
			ev: &events.Event{
				Type:    events.ForEachEventType,
				Object:  "Actors",
				Actions: action("SetX", "Actors", "=", "Count(Actors)"),
			},
			want: []string{"A.setX(1)", "B.setX(1)", "C.setX(1)", "E.setX(1)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := runFrame(t,
				`{Player: [obj("Player", "A", 150), obj("Player", "B", 50), obj("Player", "C", 200)], Enemy: [obj("Enemy", "E", 0)]}`,
				tt.ev)
			assertCalls(t, calls, tt.want...)
		})
	}
}

func TestRunMalformedExpressionKeepsTheFrame(t *testing.T) {
	calls := runFrame(t, `{Player: [obj("Player", "A", 150)], Enemy: [obj("Enemy", "E", 10)]}`,
		events.NewStandardEvent(nil, action("SetX", "Player", "=", "1 +")),
		events.NewStandardEvent(nil, action("SetX", "Enemy", "=", "5")),
	)
	assertCalls(t, calls, "A.setX(0)", "E.setX(5)")
}

func TestRunTopLevelEventsSkipDeletedObjects(t *testing.T) {
	calls := runFrame(t, `{Enemy: [obj("Enemy", "E1", 0), obj("Enemy", "E2", 0)]}`,
		events.NewStandardEvent(nil, action("Delete", "Enemy")),
		events.NewStandardEvent(nil, action("SetX", "Enemy", "=", "7")),
		&events.Event{Type: events.ForEachEventType, Object: "Enemy", Actions: action("SetX", "Enemy", "=", "9")},
		&events.Event{Type: events.RepeatEventType, RepeatExpression: events.NewExpression("Count(Enemy)"), Actions: action("SetY", "Enemy", "=", "1")},
	)
	assertCalls(t, calls, "E1.delete", "E2.delete")
}

func TestRunRepeatCountsOnce(t *testing.T) {
	calls := runFrame(t, `{Enemy: [obj("Enemy", "E1", 0), obj("Enemy", "E2", 0)]}`,
		&events.Event{Type: events.RepeatEventType, RepeatExpression: events.NewExpression("Count(Enemy) + 1"), Actions: action("SetX", "Enemy", "+", "1")},
	)
	assertCalls(t, calls,
		"E1.setX(1)", "E2.setX(1)",
		"E1.setX(2)", "E2.setX(2)",
		"E1.setX(3)", "E2.setX(3)",
	)
}

func TestRunInlineCodeReceivesPickedInstances(t *testing.T) {
	calls := runFrame(t, threePlayers,
		events.NewStandardEvent(
			[]*events.Instruction{events.NewInstruction("PosX", "Player", ">", "100")},
			nil,
			&events.Event{
				Type:             events.JsCodeEventType,
				InlineCode:       "for (const o of objects) o.setY(runtimeScene.getObjects(\"Player\").length);",
				ParameterObjects: "Player",
			}),
	)
	assertCalls(t, calls, "A.setY(3)", "C.setY(3)")
}
