package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// Unit is a generated events body ready to be wrapped into a scene or a
// function of the target language
type Unit struct {
	Name         string
	Root         *gencontext.Context
	Declarations string
	Body         string
	// Lists holds every object list the body declared, in first use order
	Lists []string
	// Function is set when the unit is an events-based function
	Function *project.EventsFunction
}

// Backend is a target language. It embeds the fragments the generator and
// the extension hooks assemble, and knows how a whole scene or function is
// laid out.
type Backend interface {
	metadata.Dialect

	// ForScene returns the backend naming things for the given scene
	ForScene(scene string) Backend
	// ForFunction returns the backend naming things for an events-based
	// function of a functions extension
	ForFunction(extension, function string) Backend

	// RuntimeIncludes lists the files every generated unit depends on
	RuntimeIncludes() []string

	WrapScene(u Unit) string
	WrapFunction(u Unit) string
}

// NewBackend returns the backend of a platform target
func NewBackend(target string) (Backend, error) {
	switch target {
	case platform.TargetJS:
		return NewJSBackend(), nil
	case platform.TargetNative:
		return NewNativeBackend(), nil
	}
	return nil, fmt.Errorf("unknown target %q (expected %s or %s)", target, platform.TargetJS, platform.TargetNative)
}

// MangleName turns an object or scene name into an identifier: every
// character that cannot appear in one is replaced by _ and its code.
func MangleName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
			b.WriteString(strconv.Itoa(int(r)))
		}
	}
	return b.String()
}

// quote escapes s into a double-quoted literal understood by both targets
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// booleanSuffix names a condition boolean level: the scope depth, then
// the sub-condition depth when conditions are nested in And/Not.
func booleanSuffix(level gencontext.BooleanLevel) string {
	if level.ConditionDepth == 0 {
		return strconv.Itoa(level.Depth)
	}
	return fmt.Sprintf("%d_%d", level.Depth, level.ConditionDepth)
}

type booleanSlot struct {
	index int
	level gencontext.BooleanLevel
}

// booleanSlots returns every condition boolean used by a pass, in a
// stable order
func booleanSlots(root *gencontext.Context) []booleanSlot {
	var slots []booleanSlot
	for level, count := range root.Booleans() {
		for i := 0; i < count; i++ {
			slots = append(slots, booleanSlot{index: i, level: level})
		}
	}
	sortSlots(slots)
	return slots
}

func sortSlots(slots []booleanSlot) {
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.level.Depth != b.level.Depth {
			return a.level.Depth < b.level.Depth
		}
		if a.level.ConditionDepth != b.level.ConditionDepth {
			return a.level.ConditionDepth < b.level.ConditionDepth
		}
		return a.index < b.index
	})
}

func joinArgs(args []string) string {
	return strings.Join(args, ", ")
}

func withNewline(code string) string {
	if code == "" {
		return ""
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return code
}
