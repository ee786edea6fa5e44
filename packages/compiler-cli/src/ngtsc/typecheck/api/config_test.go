package api_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

// observable captures everything a consumer can read from a configuration.
func observable(config *api.TypeCheckingConfig) map[string]any {
	result := map[string]any{"inputNullability": config.InputNullability()}
	for _, flag := range api.Flags() {
		result[flag.String()] = config.CheckMode(flag)
	}
	return result
}

func TestTypeCheckingConfig(t *testing.T) {
	t.Run("should ignore dependent flags while their governor is disabled", func(t *testing.T) {
		for _, flag := range api.Flags() {
			governor, ok := flag.GovernedBy()
			if !ok {
				continue
			}
			base := api.StrictTemplatesConfig(api.WithFlag(governor, false))
			on := api.StrictTemplatesConfig(api.WithFlag(governor, false), api.WithFlag(flag, true))
			off := api.StrictTemplatesConfig(api.WithFlag(governor, false), api.WithFlag(flag, false))

			if diff := cmp.Diff(observable(on), observable(off)); diff != "" {
				t.Errorf("%s changed behavior while %s is disabled (-on +off):\n%s", flag, governor, diff)
			}
			if diff := cmp.Diff(observable(base), observable(off)); diff != "" {
				t.Errorf("%s: unexpected behavior (-want +got):\n%s", flag, diff)
			}
		}
	})

	t.Run("should not preserve nullability when input bindings are unchecked", func(t *testing.T) {
		config := api.NewTypeCheckingConfig(
			api.WithFlag(api.FlagCheckTypeOfInputBindings, false),
			api.WithFlag(api.FlagStrictNullInputBindings, true),
		)
		assert.True(t, config.Stored(api.FlagStrictNullInputBindings))
		assert.False(t, config.Enabled(api.FlagStrictNullInputBindings))
		assert.Equal(t, api.NullabilityAssertNonNull, config.InputNullability())
		assert.Equal(t, api.CheckUnchecked, config.CheckMode(api.FlagCheckTypeOfInputBindings))
	})

	t.Run("should preserve nullability when input bindings are checked", func(t *testing.T) {
		config := api.NewTypeCheckingConfig(
			api.WithFlags(true, api.FlagCheckTypeOfInputBindings, api.FlagStrictNullInputBindings),
		)
		assert.Equal(t, api.NullabilityPreserve, config.InputNullability())
		assert.Equal(t, api.CheckStrict, config.CheckMode(api.FlagCheckTypeOfInputBindings))
	})

	t.Run("should follow template bodies for control flow bodies", func(t *testing.T) {
		config := api.NewTypeCheckingConfig(api.WithFlag(api.FlagCheckControlFlowBodies, true))
		assert.False(t, config.Enabled(api.FlagCheckControlFlowBodies))

		config = api.FullTemplateTypeCheckConfig()
		assert.True(t, config.Enabled(api.FlagCheckControlFlowBodies))
	})

	t.Run("should never enable the reserved flag", func(t *testing.T) {
		config := api.NewTypeCheckingConfig(api.WithFlag(api.FlagCheckQueries, true))
		assert.False(t, config.Stored(api.FlagCheckQueries))

		config.CheckQueries = true
		assert.False(t, config.Enabled(api.FlagCheckQueries))
		assert.True(t, errors.Is(config.Validate(), api.ErrReservedFlag))
	})
}

func TestPresets(t *testing.T) {
	t.Run("should disable everything in the basic preset", func(t *testing.T) {
		if diff := cmp.Diff(&api.TypeCheckingConfig{}, api.BasicTypeCheckingConfig()); diff != "" {
			t.Errorf("BasicTypeCheckingConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should leave bindings unchecked in the full preset", func(t *testing.T) {
		expected := &api.TypeCheckingConfig{
			CheckTemplateBodies:               true,
			AlwaysCheckSchemaInTemplateBodies: true,
			CheckControlFlowBodies:            true,
			CheckTypeOfNonDomReferences:       true,
			CheckTypeOfPipes:                  true,
			StrictLiteralTypes:                true,
			AllowSignalsInTwoWayBindings:      true,
		}
		if diff := cmp.Diff(expected, api.FullTemplateTypeCheckConfig()); diff != "" {
			t.Errorf("FullTemplateTypeCheckConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should leave opt-in flags disabled in the strict preset", func(t *testing.T) {
		config := api.StrictTemplatesConfig()
		for _, flag := range api.Flags() {
			switch flag {
			case api.FlagCheckTypeOfDomBindings, api.FlagHonorAccessModifiersForInputBindings, api.FlagCheckQueries:
				assert.False(t, config.Enabled(flag), flag.String())
			default:
				assert.True(t, config.Enabled(flag), flag.String())
			}
		}
		require.NoError(t, config.Validate())
	})

	t.Run("should apply options over the preset", func(t *testing.T) {
		config := api.StrictTemplatesConfig(api.WithFlag(api.FlagCheckTypeOfPipes, false))
		assert.False(t, config.Enabled(api.FlagCheckTypeOfPipes))
	})
}

func TestParseFlag(t *testing.T) {
	t.Run("should round trip every flag name", func(t *testing.T) {
		for _, flag := range api.Flags() {
			parsed, err := api.ParseFlag(flag.String())
			require.NoError(t, err)
			assert.Equal(t, flag, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := api.ParseFlag("checkEverything")
		assert.Error(t, err)
	})
}

func TestConfigCodec(t *testing.T) {
	// Inert values must survive a round trip.
	config := api.NewTypeCheckingConfig(
		api.WithFlag(api.FlagCheckTypeOfInputBindings, false),
		api.WithFlags(true,
			api.FlagStrictNullInputBindings,
			api.FlagCheckTypeOfAttributes,
			api.FlagCheckControlFlowBodies,
			api.FlagCheckTypeOfPipes,
		),
	)

	for _, format := range []api.ConfigFormat{api.ConfigFormatJSON, api.ConfigFormatYAML, api.ConfigFormatTOML} {
		t.Run("should round trip "+string(format), func(t *testing.T) {
			data, err := api.EncodeConfig(config, format)
			require.NoError(t, err)
			decoded, err := api.DecodeConfig(data, format)
			require.NoError(t, err)
			if diff := cmp.Diff(config, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("should round trip a binary snapshot", func(t *testing.T) {
		data, err := config.MarshalBinary()
		require.NoError(t, err)
		decoded := &api.TypeCheckingConfig{}
		require.NoError(t, decoded.UnmarshalBinary(data))
		if diff := cmp.Diff(config, decoded); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should disable flags missing from the input", func(t *testing.T) {
		decoded, err := api.DecodeConfig([]byte("checkTypeOfPipes: true\n"), api.ConfigFormatYAML)
		require.NoError(t, err)
		expected := &api.TypeCheckingConfig{CheckTypeOfPipes: true}
		if diff := cmp.Diff(expected, decoded); diff != "" {
			t.Errorf("DecodeConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should reject the reserved flag", func(t *testing.T) {
		_, err := api.DecodeConfig([]byte(`{"checkQueries": true}`), api.ConfigFormatJSON)
		assert.True(t, errors.Is(err, api.ErrReservedFlag))

		_, err = api.DecodeConfig([]byte("checkQueries = true\n"), api.ConfigFormatTOML)
		assert.True(t, errors.Is(err, api.ErrReservedFlag))
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		_, err := api.DecodeConfig([]byte("{"), api.ConfigFormatJSON)
		assert.Error(t, err)
	})

	t.Run("should guess the format from the extension", func(t *testing.T) {
		assert.Equal(t, api.ConfigFormatYAML, api.ConfigFormatOf("file:///p/typecheck.YML"))
		assert.Equal(t, api.ConfigFormatTOML, api.ConfigFormatOf("typecheck.toml"))
		assert.Equal(t, api.ConfigFormatJSON, api.ConfigFormatOf("tsconfig.json"))
		assert.Equal(t, api.ConfigFormatJSON, api.ConfigFormatOf("typecheck"))
	})
}
