package metadata

// BindingProperty is a class property that is exposed to templates under a binding name.
type BindingProperty interface {
	GetClassPropertyName() string
	GetBindingPropertyName() string
}

// InputMapping describes a directive input.
type InputMapping struct {
	ClassPropertyName   string `yaml:"classPropertyName" json:"classPropertyName"`
	BindingPropertyName string `yaml:"bindingPropertyName" json:"bindingPropertyName"`
	Required            bool   `yaml:"required,omitempty" json:"required,omitempty"`
	IsSignal            bool   `yaml:"isSignal,omitempty" json:"isSignal,omitempty"`
	// TransformType is the parameter type of the input's transform function.
	// Empty when the input has no transform.
	TransformType string `yaml:"transformType,omitempty" json:"transformType,omitempty"`
}

func (m InputMapping) GetClassPropertyName() string   { return m.ClassPropertyName }
func (m InputMapping) GetBindingPropertyName() string { return m.BindingPropertyName }

// HasTransform reports whether values bound to the input pass through a transform function.
func (m InputMapping) HasTransform() bool { return m.TransformType != "" }

// OutputMapping describes a directive output.
type OutputMapping struct {
	ClassPropertyName   string `yaml:"classPropertyName" json:"classPropertyName"`
	BindingPropertyName string `yaml:"bindingPropertyName" json:"bindingPropertyName"`
}

func (m OutputMapping) GetClassPropertyName() string   { return m.ClassPropertyName }
func (m OutputMapping) GetBindingPropertyName() string { return m.BindingPropertyName }

// ClassPropertyMapping is an ordered, read-only mapping between the class
// properties of a directive and the names they are bound under.
//
// A class property appears at most once; later duplicates are dropped.
type ClassPropertyMapping[T BindingProperty] struct {
	items     []T
	byClass   map[string]int
	byBinding map[string][]int
}

// NewClassPropertyMapping builds a mapping from items in declaration order.
func NewClassPropertyMapping[T BindingProperty](items ...T) *ClassPropertyMapping[T] {
	m := &ClassPropertyMapping[T]{
		byClass:   make(map[string]int, len(items)),
		byBinding: make(map[string][]int, len(items)),
	}
	for _, item := range items {
		if _, ok := m.byClass[item.GetClassPropertyName()]; ok {
			continue
		}
		idx := len(m.items)
		m.items = append(m.items, item)
		m.byClass[item.GetClassPropertyName()] = idx
		m.byBinding[item.GetBindingPropertyName()] = append(m.byBinding[item.GetBindingPropertyName()], idx)
	}
	return m
}

// HasBindingPropertyName reports whether any class property is bound under propertyName.
func (m *ClassPropertyMapping[T]) HasBindingPropertyName(propertyName string) bool {
	return len(m.byBinding[propertyName]) > 0
}

// GetByClassPropertyName returns the mapping of a class property.
func (m *ClassPropertyMapping[T]) GetByClassPropertyName(name string) (T, bool) {
	idx, ok := m.byClass[name]
	if !ok {
		var zero T
		return zero, false
	}
	return m.items[idx], true
}

// GetByBindingPropertyName returns every mapping bound under propertyName.
func (m *ClassPropertyMapping[T]) GetByBindingPropertyName(propertyName string) []T {
	var result []T
	for _, idx := range m.byBinding[propertyName] {
		result = append(result, m.items[idx])
	}
	return result
}

// ClassPropertyNames returns the class property names in declaration order.
func (m *ClassPropertyMapping[T]) ClassPropertyNames() []string {
	names := make([]string, 0, len(m.items))
	for _, item := range m.items {
		names = append(names, item.GetClassPropertyName())
	}
	return names
}

// All returns every mapping in declaration order.
func (m *ClassPropertyMapping[T]) All() []T {
	return append([]T(nil), m.items...)
}

// Len returns the number of mapped class properties.
func (m *ClassPropertyMapping[T]) Len() int {
	return len(m.items)
}
