package metadata_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/metadata"
)

func TestClassPropertyMapping(t *testing.T) {
	mapping := metadata.NewClassPropertyMapping(
		metadata.InputMapping{ClassPropertyName: "value", BindingPropertyName: "ngModel"},
		metadata.InputMapping{ClassPropertyName: "alias", BindingPropertyName: "ngModel"},
		metadata.InputMapping{ClassPropertyName: "value", BindingPropertyName: "duplicate"},
		metadata.InputMapping{ClassPropertyName: "name", BindingPropertyName: "name", Required: true},
	)

	t.Run("should keep the first mapping of a class property", func(t *testing.T) {
		assert.Equal(t, 3, mapping.Len())
		input, ok := mapping.GetByClassPropertyName("value")
		assert.True(t, ok)
		assert.Equal(t, "ngModel", input.BindingPropertyName)
		assert.False(t, mapping.HasBindingPropertyName("duplicate"))
	})

	t.Run("should map a binding name to every class property", func(t *testing.T) {
		got := []string{}
		for _, input := range mapping.GetByBindingPropertyName("ngModel") {
			got = append(got, input.ClassPropertyName)
		}
		if diff := cmp.Diff([]string{"value", "alias"}, got); diff != "" {
			t.Errorf("GetByBindingPropertyName() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should list class property names in declaration order", func(t *testing.T) {
		if diff := cmp.Diff([]string{"value", "alias", "name"}, mapping.ClassPropertyNames()); diff != "" {
			t.Errorf("ClassPropertyNames() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report missing properties", func(t *testing.T) {
		_, ok := mapping.GetByClassPropertyName("missing")
		assert.False(t, ok)
	})
}
