package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/conduit-lang/eventc/internal/compiler/ast"
)

func mustParse(t *testing.T, text string) ast.Node {
	t.Helper()
	node, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return node
}

func TestParse_Literals(t *testing.T) {
	node := mustParse(t, "3.5")
	num, ok := node.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("Expected NumberLiteral, got %T", node)
	}
	if num.Value != 3.5 || num.Raw != "3.5" {
		t.Errorf("NumberLiteral = %v (%q), want 3.5", num.Value, num.Raw)
	}

	node = mustParse(t, `"hello"`)
	text, ok := node.(*ast.TextLiteral)
	if !ok {
		t.Fatalf("Expected TextLiteral, got %T", node)
	}
	if text.Value != "hello" {
		t.Errorf("TextLiteral = %q, want hello", text.Value)
	}
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "1 + 2 * 3"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"2 ^ 3 ^ 2", "2 ^ 3 ^ 2"},
		{"-2 + 3", "-2 + 3"},
		{"12.5 + -(2.) / (0.3)", "12.5 + -(2.) / (0.3)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := mustParse(t, tt.input)
			if got := ast.String(node); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	// 1 + 2 * 3 must group the multiplication
	node := mustParse(t, "1 + 2 * 3")
	op := node.(*ast.Operator)
	if op.Op != '+' {
		t.Fatalf("Root operator = %c, want +", op.Op)
	}
	if right, ok := op.Right.(*ast.Operator); !ok || right.Op != '*' {
		t.Errorf("Right side should be the multiplication, got %T", op.Right)
	}

	// ^ is right-associative
	node = mustParse(t, "2 ^ 3 ^ 2")
	pow := node.(*ast.Operator)
	if _, ok := pow.Right.(*ast.Operator); !ok {
		t.Errorf("^ should be right-associative, right side is %T", pow.Right)
	}
}

func TestParse_FunctionCalls(t *testing.T) {
	node := mustParse(t, `MyExtension::GetNumberWith2Params(12, "hello world")`)
	call, ok := node.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("Expected FunctionCall, got %T", node)
	}
	if call.FunctionName != "MyExtension::GetNumberWith2Params" || call.IsObjectCall() {
		t.Errorf("Unexpected call: %+v", call)
	}
	if len(call.Args) != 2 {
		t.Fatalf("Expected 2 args, got %d", len(call.Args))
	}

	node = mustParse(t, "Player.X()")
	call = node.(*ast.FunctionCall)
	if call.ObjectName != "Player" || call.FunctionName != "X" || call.IsBehaviorCall() {
		t.Errorf("Unexpected object call: %+v", call)
	}

	node = mustParse(t, "Player.Platformer::MaxSpeed(1)")
	call = node.(*ast.FunctionCall)
	if call.ObjectName != "Player" || call.BehaviorName != "Platformer" || call.FunctionName != "MaxSpeed" {
		t.Errorf("Unexpected behavior call: %+v", call)
	}
}

func TestParse_OmittedArguments(t *testing.T) {
	tests := []struct {
		input string
		args  int
	}{
		{"MouseX()", 0},
		{`MouseX("layer1",)`, 2},
		{"MouseX(,)", 2},
		{`MouseX("layer1", 2+2)`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call := mustParse(t, tt.input).(*ast.FunctionCall)
			if len(call.Args) != tt.args {
				t.Errorf("Expected %d args, got %d", tt.args, len(call.Args))
			}
		})
	}

	call := mustParse(t, "MouseX(,)").(*ast.FunctionCall)
	for i, arg := range call.Args {
		if _, ok := arg.(*ast.Empty); !ok {
			t.Errorf("Arg %d should be Empty, got %T", i, arg)
		}
	}
}

func TestParse_Variables(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, n ast.Node)
	}{
		{"Score", func(t *testing.T, n ast.Node) {
			id, ok := n.(*ast.Identifier)
			if !ok || id.Name != "Score" || id.ChildName != "" {
				t.Errorf("Expected identifier Score, got %#v", n)
			}
		}},
		{"Player.Life", func(t *testing.T, n ast.Node) {
			id, ok := n.(*ast.Identifier)
			if !ok || id.Name != "Player" || id.ChildName != "Life" {
				t.Errorf("Expected identifier Player.Life, got %#v", n)
			}
		}},
		{"Inventory.Sword.Damage", func(t *testing.T, n ast.Node) {
			v, ok := n.(*ast.Variable)
			if !ok || v.Name != "Inventory" {
				t.Fatalf("Expected variable Inventory, got %#v", n)
			}
			first := v.Child.(*ast.VariableAccessor)
			second := first.Child.(*ast.VariableAccessor)
			if first.Name != "Sword" || second.Name != "Damage" {
				t.Errorf("Unexpected chain %s.%s", first.Name, second.Name)
			}
		}},
		{`Inventory["Sword"][1 + 1].Damage`, func(t *testing.T, n ast.Node) {
			v := n.(*ast.Variable)
			bracket := v.Child.(*ast.VariableBracketAccessor)
			if _, ok := bracket.Expr.(*ast.TextLiteral); !ok {
				t.Errorf("First accessor should hold a text literal, got %T", bracket.Expr)
			}
			second := bracket.Child.(*ast.VariableBracketAccessor)
			if _, ok := second.Expr.(*ast.Operator); !ok {
				t.Errorf("Second accessor should hold an operator, got %T", second.Expr)
			}
			if last := second.Next().(*ast.VariableAccessor); last.Name != "Damage" {
				t.Errorf("Last accessor = %s", last.Name)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tt.check(t, mustParse(t, tt.input))
		})
	}
}

func TestParse_EmptyText(t *testing.T) {
	node, err := Parse("   ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := node.(*ast.Empty); !ok {
		t.Errorf("Expected Empty, got %T", node)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		near    string
	}{
		{"(1 + 2", "closing parenthesis", "end of expression"},
		{"1 +", "missing", "end of expression"},
		{"1 2", "extra characters", "2"},
		{"()", "between the parentheses", ")"},
		{"f(1 2)", "not terminated", "2"},
		{"Player.Beh::Func", "opening parenthesis", "end of expression"},
		{`"open`, "Unterminated", `"open`},
		{"Var[1", "closing bracket", "end of expression"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if node == nil {
				t.Fatal("A tree must be returned even on error")
			}

			var list ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("Expected ErrorList, got %T", err)
			}
			first := list.First()
			if !strings.Contains(strings.ToLower(first.Message), strings.ToLower(tt.message)) {
				t.Errorf("Message = %q, want it to contain %q", first.Message, tt.message)
			}
			if first.Near != tt.near {
				t.Errorf("Near = %q, want %q", first.Near, tt.near)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("1 + 2 ) 3")
	if err == nil {
		t.Fatal("Expected an error")
	}
	first := err.(ErrorList).First()
	if first.Location.Start != 6 {
		t.Errorf("Error at %d, want 6", first.Location.Start)
	}
	if !strings.Contains(err.Error(), "column 7") {
		t.Errorf("Error() = %q, want it to mention column 7", err.Error())
	}
}

func TestParse_Locations(t *testing.T) {
	node := mustParse(t, "Player.X() + 10")
	op := node.(*ast.Operator)
	if loc := op.Left.Location(); loc.Start != 0 || loc.End != 10 {
		t.Errorf("Call location = %+v, want 0..10", loc)
	}
	if loc := op.Right.Location(); loc.Start != 13 || loc.End != 15 {
		t.Errorf("Number location = %+v, want 13..15", loc)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		`ToString(Variable(Score)) + " points"`,
		"Player.Physics::Speed(1, 2) * -Enemy.X()",
		`Inventory["Sword"].Damage + 2`,
		"abs(sin(3.14) - 1)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := ast.String(mustParse(t, input))
			second := ast.String(mustParse(t, first))
			if first != second {
				t.Errorf("Round trip changed the expression: %q -> %q", first, second)
			}
		})
	}
}
