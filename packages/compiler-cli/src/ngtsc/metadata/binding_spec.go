package metadata

import (
	"strings"

	"gopkg.in/yaml.v3"

	"ngtcb-go/packages/compiler/src/util"
)

// ParseBindingSpec reads the `classPropertyName: bindingPropertyName` shorthand used in the
// inputs and outputs arrays of a directive. Without a colon both names are the same.
func ParseBindingSpec(spec string) (classPropertyName, bindingPropertyName string) {
	spec = strings.TrimSpace(spec)
	parts := util.SplitAtColon(spec, []string{spec, spec})
	return parts[0], parts[1]
}

// UnmarshalYAML accepts either a mapping or a binding spec string.
func (m *InputMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var spec string
		if err := value.Decode(&spec); err != nil {
			return err
		}
		*m = InputMapping{}
		m.ClassPropertyName, m.BindingPropertyName = ParseBindingSpec(spec)
		return nil
	}
	type plain InputMapping
	return value.Decode((*plain)(m))
}

// UnmarshalYAML accepts either a mapping or a binding spec string.
func (m *OutputMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var spec string
		if err := value.Decode(&spec); err != nil {
			return err
		}
		m.ClassPropertyName, m.BindingPropertyName = ParseBindingSpec(spec)
		return nil
	}
	type plain OutputMapping
	return value.Decode((*plain)(m))
}
