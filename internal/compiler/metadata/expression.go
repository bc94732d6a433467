package metadata

// ExpressionMetadata describes a free, object or behavior expression
type ExpressionMetadata struct {
	Name               string              `json:"name"`
	ExtensionNamespace string              `json:"extensionNamespace,omitempty"`
	ReturnType         string              `json:"returnType"`
	FullName           string              `json:"fullName"`
	Description        string              `json:"description,omitempty"`
	Group              string              `json:"group,omitempty"`
	SmallIcon          string              `json:"smallIcon,omitempty"`
	Parameters         []ParameterMetadata `json:"parameters"`

	FunctionName string `json:"functionName,omitempty"`
	IncludeFile  string `json:"includeFile,omitempty"`
	Hidden       bool   `json:"hidden,omitempty"`
	// Static expressions are called without an object instance, even
	// when declared on an object type
	Static bool `json:"static,omitempty"`

	CustomCodeGenerator ExpressionCodeGenerator `json:"-"`

	bad bool
}

func newExpressionMetadata(returnType, namespace, name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return &ExpressionMetadata{
		Name:               namespaced(namespace, name),
		ExtensionNamespace: namespace,
		ReturnType:         returnType,
		FullName:           fullName,
		Description:        description,
		Group:              group,
		SmallIcon:          smallIcon,
	}
}

// NewBadExpressionMetadata creates the instance returned when an expression
// lookup fails
func NewBadExpressionMetadata() *ExpressionMetadata {
	return &ExpressionMetadata{
		FullName: "Unknown expression",
		Hidden:   true,
		bad:      true,
	}
}

// AddParameter appends a parameter
func (m *ExpressionMetadata) AddParameter(paramType, description, restrictToObjectType string, optional bool) *ExpressionMetadata {
	m.Parameters = append(m.Parameters, ParameterMetadata{
		Type:                     paramType,
		Description:              description,
		SupplementaryInformation: restrictToObjectType,
		Optional:                 optional,
	})
	return m
}

// AddCodeOnlyParameter appends a parameter materialized by the generator
func (m *ExpressionMetadata) AddCodeOnlyParameter(paramType, supplementary string) *ExpressionMetadata {
	m.Parameters = append(m.Parameters, ParameterMetadata{
		Type:                     paramType,
		SupplementaryInformation: supplementary,
		CodeOnly:                 true,
	})
	return m
}

// SetDefaultValue sets the default of the last added parameter
func (m *ExpressionMetadata) SetDefaultValue(value string) *ExpressionMetadata {
	if n := len(m.Parameters); n > 0 {
		m.Parameters[n-1].DefaultValue = value
	}
	return m
}

// SetHidden hides the expression from the editor lists
func (m *ExpressionMetadata) SetHidden() *ExpressionMetadata {
	m.Hidden = true
	return m
}

// SetFunctionName sets the runtime function called by generated code
func (m *ExpressionMetadata) SetFunctionName(name string) *ExpressionMetadata {
	m.FunctionName = name
	return m
}

// SetStatic marks the expression as called without an instance
func (m *ExpressionMetadata) SetStatic() *ExpressionMetadata {
	m.Static = true
	return m
}

// SetIncludeFile sets the runtime file the generated code depends on
func (m *ExpressionMetadata) SetIncludeFile(file string) *ExpressionMetadata {
	m.IncludeFile = file
	return m
}

// SetCustomCodeGenerator replaces the default code generation
func (m *ExpressionMetadata) SetCustomCodeGenerator(gen ExpressionCodeGenerator) *ExpressionMetadata {
	m.CustomCodeGenerator = gen
	return m
}

// IsBad reports whether m is a not-found sentinel
func (m *ExpressionMetadata) IsBad() bool {
	return m == nil || m.bad
}

// Parameter returns the metadata of parameter index
func (m *ExpressionMetadata) Parameter(index int) (ParameterMetadata, bool) {
	if index < 0 || index >= len(m.Parameters) {
		return ParameterMetadata{}, false
	}
	return m.Parameters[index], true
}
