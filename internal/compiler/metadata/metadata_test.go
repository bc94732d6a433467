package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstructionBuilder(t *testing.T) {
	ext := NewExtension("Sprite", "", "Sprite", "Animated objects", "", "MIT")
	obj := ext.AddObject("Sprite", "Sprite", "Animated object", "sprite.png").
		SetClassName("RuntimeSpriteObject").
		SetIncludeFile("GDCpp/Extensions/Builtin/SpriteExtension/RuntimeSpriteObject.h")

	cond := obj.AddCondition("Animation", "Current animation", "Compare the animation number",
		"The animation of _PARAM0_ is _PARAM1__PARAM2_", "Animations", "anim24.png", "anim.png").
		AddParameter(ParamObject, "Object", "Sprite", false).
		AddParameter(ParamRelationalOperator, "Sign of the test", "", false).
		AddParameter(ParamExpression, "Value", "", false).
		SetDefaultValue("0").
		SetManipulatedType(ValueNumber).
		SetFunctionName("getAnimation")

	if got := obj.Conditions["Animation"]; got != cond {
		t.Fatal("AddCondition must register the returned metadata")
	}
	if cond.ExtensionNamespace != "" || cond.Name != "Animation" {
		t.Errorf("Unexpected identity %q/%q", cond.ExtensionNamespace, cond.Name)
	}
	if len(cond.Parameters) != 3 {
		t.Fatalf("Expected 3 parameters, got %d", len(cond.Parameters))
	}
	if cond.Parameters[2].DefaultValue != "0" || cond.Parameters[1].DefaultValue != "" {
		t.Error("SetDefaultValue must only change the last parameter")
	}
	if cond.ParameterIndex(ParamRelationalOperator) != 1 {
		t.Errorf("ParameterIndex() = %d, want 1", cond.ParameterIndex(ParamRelationalOperator))
	}
	if cond.IsBad() {
		t.Error("Registered metadata must not be bad")
	}
}

func TestParameterIndexPrefersTheLast(t *testing.T) {
	ext := NewExtension("Demo", "Demo", "Demo", "", "", "")
	md := ext.AddCondition("Compare", "Compare", "", "", "", "", "").
		AddParameter(ParamExpression, "Left", "", false).
		AddParameter(ParamRelationalOperator, "Sign of the test", "", false).
		AddParameter(ParamExpression, "Right", "", false)

	if got := md.ParameterIndex(ParamExpression); got != 2 {
		t.Errorf("ParameterIndex(expression) = %d, want 2", got)
	}
	if got := md.ParameterIndex(ParamOperator); got != -1 {
		t.Errorf("ParameterIndex(operator) = %d, want -1", got)
	}
}

func TestBuilderLastWriteWins(t *testing.T) {
	ext := NewExtension("Demo", "Demo", "Demo", "", "", "")
	md := ext.AddAction("Do", "Do", "", "", "", "", "").
		SetFunctionName("first").
		SetFunctionName("second").
		SetIncludeFile("a.h").
		SetIncludeFile("b.h")

	if md.FunctionName != "second" || md.IncludeFile != "b.h" {
		t.Errorf("Got %q, %q", md.FunctionName, md.IncludeFile)
	}
	if md.Name != "Demo::Do" {
		t.Errorf("Namespaced name = %q, want Demo::Do", md.Name)
	}

	again := ext.AddAction("Do", "Do again", "", "", "", "", "")
	if ext.Actions["Demo::Do"] != again {
		t.Error("The last registration of a name must win")
	}
}

func TestBadSentinels(t *testing.T) {
	instr := NewBadInstructionMetadata()
	if !instr.IsBad() || !instr.Hidden || instr.FunctionName != "" {
		t.Errorf("Unexpected bad instruction: %+v", instr)
	}
	if instr.Sentence == "" {
		t.Error("The bad instruction must carry an explanatory sentence")
	}
	if _, ok := instr.Parameter(0); ok {
		t.Error("The bad instruction has no parameters")
	}

	var nilInstr *InstructionMetadata
	if !nilInstr.IsBad() {
		t.Error("A nil instruction is bad")
	}

	if !NewBadExpressionMetadata().IsBad() || !NewBadObjectMetadata().IsBad() ||
		!NewBadBehaviorMetadata().IsBad() || !NewBadEventMetadata().IsBad() {
		t.Error("Every sentinel must report IsBad")
	}
	if NewBadInstructionMetadata() == NewBadInstructionMetadata() {
		t.Error("Each call creates a distinct sentinel")
	}
}

func TestParameterKinds(t *testing.T) {
	tests := []struct {
		param ParameterMetadata
		want  ParameterKind
	}{
		{ParameterMetadata{Type: ParamExpression}, KindValue},
		{ParameterMetadata{Type: ParamOperator}, KindValue},
		{ParameterMetadata{Type: ParamObject}, KindObject},
		{ParameterMetadata{Type: ParamObjectListOrEmpty}, KindObject},
		{ParameterMetadata{Type: ParamCurrentScene, CodeOnly: true}, KindCodeOnly},
		{ParameterMetadata{Type: ParamObjectPtr, CodeOnly: true}, KindCodeOnly},
	}

	for _, tt := range tests {
		t.Run(tt.param.Type, func(t *testing.T) {
			if got := tt.param.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionType(t *testing.T) {
	tests := map[string]string{
		ParamExpression:         ValueNumber,
		ParamNumber:             ValueNumber,
		ParamString:             ValueString,
		ParamLayer:              ValueString,
		ParamObject:             "",
		ParamSceneVariable:      "",
		ParamRelationalOperator: "",
	}
	for paramType, want := range tests {
		if got := ExpressionType(paramType); got != want {
			t.Errorf("ExpressionType(%s) = %q, want %q", paramType, got, want)
		}
	}
	if !IsVariable(ParamObjectVariable) || IsVariable(ParamString) {
		t.Error("IsVariable misclassifies parameters")
	}
	if !IsBehavior(ParamBehavior) {
		t.Error("IsBehavior(behavior) should be true")
	}
}

func TestExtensionDeclarations(t *testing.T) {
	ext := NewExtension("PlatformBehavior", "PlatformBehavior", "Platformer", "", "", "")
	b := ext.AddBehavior("PlatformerObjectBehavior", "Platformer character", "PlatformerObject", "", "", "")
	b.AddCondition("IsJumping", "Is jumping", "", "", "", "", "")
	b.AddExpression("MaxSpeed", "Maximum speed", "", "", "")
	ext.AddEvent("Custom", "Custom event", "", "", "")
	ext.AddStrExpression("Version", "Version", "", "", "")

	if _, ok := ext.Behavior("PlatformBehavior::PlatformerObjectBehavior"); !ok {
		t.Fatal("Behavior types are namespaced")
	}
	if _, ok := b.Conditions["PlatformBehavior::IsJumping"]; !ok {
		t.Error("Behavior conditions are namespaced")
	}
	if _, ok := b.Expressions["MaxSpeed"]; !ok {
		t.Error("Behavior expressions are called by their short name")
	}
	if _, ok := ext.Event("PlatformBehavior::Custom"); !ok {
		t.Error("Event types are namespaced")
	}
	if ext.StrExpressions["PlatformBehavior::Version"].ReturnType != ValueString {
		t.Error("AddStrExpression must declare a string expression")
	}

	base := NewExtension("BuiltinObject", "", "Base object", "", "", "")
	base.AddObject("", "Base object", "", "")
	if _, ok := base.Object(""); !ok {
		t.Error("The base object type is registered under \"\"")
	}

	names := ext.AllInstructionNames()
	joined := strings.Join(names, ",")
	for _, want := range []string{"behavior(PlatformBehavior::PlatformerObjectBehavior)/c:PlatformBehavior::IsJumping", "event:PlatformBehavior::Custom", "s:PlatformBehavior::Version"} {
		if !strings.Contains(joined, want) {
			t.Errorf("AllInstructionNames() misses %q: %v", want, names)
		}
	}
}

func TestSummarize(t *testing.T) {
	ext := NewExtension("Sprite", "", "Sprite", "", "", "")
	obj := ext.AddObject("Sprite", "Sprite", "", "")
	obj.AddCondition("Animation", "", "", "", "", "", "")
	obj.AddAction("SetAnimation", "", "", "", "", "", "")
	obj.AddExpression("Animation", "", "", "", "")
	ext.AddCondition("Global", "", "", "", "", "", "")

	s := Summarize(ext)
	if s.Conditions != 2 || s.Actions != 1 || s.Expressions != 1 || s.Objects != 1 {
		t.Errorf("Unexpected summary %+v", s)
	}
}

func TestSerialize(t *testing.T) {
	b := NewExtension("B", "B", "Second", "", "", "")
	a := NewExtension("A", "A", "First", "", "", "")
	a.AddAction("Do", "Do", "", "", "", "", "").
		SetFunctionName("doIt").
		SetCustomCodeGenerator(nil)

	catalog := &Catalog{Platform: "js", Fingerprint: "abc", Extensions: []*PlatformExtension{b, a}}
	first, err := Serialize(catalog)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	second, _ := Serialize(catalog)
	if string(first) != string(second) {
		t.Error("Serialize() must be deterministic")
	}
	if catalog.Extensions[0] != b {
		t.Error("Serialize() must not reorder the caller's catalog")
	}

	var decoded struct {
		Extensions []struct {
			Name    string                     `json:"name"`
			Actions map[string]json.RawMessage `json:"actions"`
		} `json:"extensions"`
	}
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded.Extensions[0].Name != "A" {
		t.Errorf("Extensions should be sorted by name, got %s first", decoded.Extensions[0].Name)
	}
	if _, ok := decoded.Extensions[0].Actions["A::Do"]; !ok {
		t.Error("Actions should be serialized inline")
	}

	if _, err := Serialize(nil); err == nil {
		t.Error("Serialize(nil) should fail")
	}
}

func TestWriteToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build", "extensions.json")

	if err := WriteToFile(&Catalog{Platform: "native"}, path); err != nil {
		t.Fatalf("WriteToFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read catalog: %v", err)
	}
	if !strings.Contains(string(data), `"platform": "native"`) {
		t.Errorf("Unexpected catalog content: %s", data)
	}

	if err := WriteToFile(&Catalog{}, ""); err == nil {
		t.Error("An empty path should fail")
	}
}
