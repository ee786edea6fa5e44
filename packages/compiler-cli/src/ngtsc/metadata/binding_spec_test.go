package metadata_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
)

func TestParseBindingSpec(t *testing.T) {
	t.Run("should split aliased bindings", func(t *testing.T) {
		class, binding := metadata.ParseBindingSpec("text: tooltip")
		assert.Equal(t, "text", class)
		assert.Equal(t, "tooltip", binding)
	})

	t.Run("should reuse the class property name", func(t *testing.T) {
		class, binding := metadata.ParseBindingSpec(" ngIf ")
		assert.Equal(t, "ngIf", class)
		assert.Equal(t, "ngIf", binding)
	})
}

func TestBindingYAML(t *testing.T) {
	t.Run("should decode specs and mappings", func(t *testing.T) {
		var decl struct {
			Inputs  []metadata.InputMapping  `yaml:"inputs"`
			Outputs []metadata.OutputMapping `yaml:"outputs"`
		}
		data := `
inputs:
  - ngIf
  - "text: tooltip"
  - classPropertyName: delay
    bindingPropertyName: tooltipDelay
    transformType: number
outputs:
  - "shown: tooltipShown"
`
		require.NoError(t, yaml.Unmarshal([]byte(data), &decl))

		expectedInputs := []metadata.InputMapping{
			{ClassPropertyName: "ngIf", BindingPropertyName: "ngIf"},
			{ClassPropertyName: "text", BindingPropertyName: "tooltip"},
			{ClassPropertyName: "delay", BindingPropertyName: "tooltipDelay", TransformType: "number"},
		}
		if diff := cmp.Diff(expectedInputs, decl.Inputs); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
		expectedOutputs := []metadata.OutputMapping{{ClassPropertyName: "shown", BindingPropertyName: "tooltipShown"}}
		if diff := cmp.Diff(expectedOutputs, decl.Outputs); diff != "" {
			t.Errorf("outputs mismatch (-want +got):\n%s", diff)
		}
	})
}
