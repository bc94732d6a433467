package metadata

// Value types manipulated by instructions and returned by expressions
const (
	ValueNone   = ""
	ValueNumber = "number"
	ValueString = "string"
)

const unsupportedSentence = "Unknown or unsupported instruction"

// InstructionMetadata describes a condition or an action
type InstructionMetadata struct {
	Name               string              `json:"name"`
	ExtensionNamespace string              `json:"extensionNamespace,omitempty"`
	FullName           string              `json:"fullName"`
	Description        string              `json:"description,omitempty"`
	Sentence           string              `json:"sentence,omitempty"`
	Group              string              `json:"group,omitempty"`
	Icon               string              `json:"icon,omitempty"`
	SmallIcon          string              `json:"smallIcon,omitempty"`
	Parameters         []ParameterMetadata `json:"parameters"`

	FunctionName           string `json:"functionName,omitempty"`
	ManipulatedType        string `json:"manipulatedType,omitempty"`
	Getter                 string `json:"getter,omitempty"`
	IncludeFile            string `json:"includeFile,omitempty"`
	Hidden                 bool   `json:"hidden,omitempty"`
	CanHaveSubInstructions bool   `json:"canHaveSubInstructions,omitempty"`

	CustomCodeGenerator InstructionCodeGenerator `json:"-"`

	bad bool
}

func newInstructionMetadata(namespace, name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return &InstructionMetadata{
		Name:               namespaced(namespace, name),
		ExtensionNamespace: namespace,
		FullName:           fullName,
		Description:        description,
		Sentence:           sentence,
		Group:              group,
		Icon:               icon,
		SmallIcon:          smallIcon,
	}
}

// NewBadInstructionMetadata creates the instance returned when a lookup
// fails. Each platform owns one.
func NewBadInstructionMetadata() *InstructionMetadata {
	return &InstructionMetadata{
		FullName: "Unknown instruction",
		Sentence: unsupportedSentence,
		Hidden:   true,
		bad:      true,
	}
}

// AddParameter appends a parameter. restrictToObjectType limits object
// parameters to one object type ("" accepts any object).
func (m *InstructionMetadata) AddParameter(paramType, description, restrictToObjectType string, optional bool) *InstructionMetadata {
	m.Parameters = append(m.Parameters, ParameterMetadata{
		Type:                     paramType,
		Description:              description,
		SupplementaryInformation: restrictToObjectType,
		Optional:                 optional,
	})
	return m
}

// AddCodeOnlyParameter appends a parameter that the author never fills:
// the code generator materializes it from paramType and supplementary.
func (m *InstructionMetadata) AddCodeOnlyParameter(paramType, supplementary string) *InstructionMetadata {
	m.Parameters = append(m.Parameters, ParameterMetadata{
		Type:                     paramType,
		SupplementaryInformation: supplementary,
		CodeOnly:                 true,
	})
	return m
}

// SetDefaultValue sets the default of the last added parameter
func (m *InstructionMetadata) SetDefaultValue(value string) *InstructionMetadata {
	if n := len(m.Parameters); n > 0 {
		m.Parameters[n-1].DefaultValue = value
	}
	return m
}

// SetHidden hides the instruction from the editor lists
func (m *InstructionMetadata) SetHidden() *InstructionMetadata {
	m.Hidden = true
	return m
}

// SetCanHaveSubInstructions allows sub-instructions (Or, And, Not...)
func (m *InstructionMetadata) SetCanHaveSubInstructions() *InstructionMetadata {
	m.CanHaveSubInstructions = true
	return m
}

// SetFunctionName sets the runtime function called by generated code
func (m *InstructionMetadata) SetFunctionName(name string) *InstructionMetadata {
	m.FunctionName = name
	return m
}

// SetManipulatedType declares the instruction as a comparison (condition)
// or a modification (action) of a number or string value
func (m *InstructionMetadata) SetManipulatedType(valueType string) *InstructionMetadata {
	m.ManipulatedType = valueType
	return m
}

// SetGetter sets the function reading the value modified by an action
func (m *InstructionMetadata) SetGetter(getter string) *InstructionMetadata {
	m.Getter = getter
	return m
}

// SetIncludeFile sets the runtime file the generated code depends on
func (m *InstructionMetadata) SetIncludeFile(file string) *InstructionMetadata {
	m.IncludeFile = file
	return m
}

// SetCustomCodeGenerator replaces the default code generation
func (m *InstructionMetadata) SetCustomCodeGenerator(gen InstructionCodeGenerator) *InstructionMetadata {
	m.CustomCodeGenerator = gen
	return m
}

// IsBad reports whether m is a not-found sentinel
func (m *InstructionMetadata) IsBad() bool {
	return m == nil || m.bad
}

// Parameter returns the metadata of parameter index
func (m *InstructionMetadata) Parameter(index int) (ParameterMetadata, bool) {
	if index < 0 || index >= len(m.Parameters) {
		return ParameterMetadata{}, false
	}
	return m.Parameters[index], true
}

// ParameterIndex returns the index of the last parameter of paramType, or
// -1. Operators come last, after any parameter of the same type used as a
// value.
func (m *InstructionMetadata) ParameterIndex(paramType string) int {
	for i := len(m.Parameters) - 1; i >= 0; i-- {
		if m.Parameters[i].Type == paramType {
			return i
		}
	}
	return -1
}

func namespaced(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "::" + name
}
