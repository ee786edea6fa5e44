package core_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/core"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

func boolPtr(b bool) *bool { return &b }

func TestTypeCheckingConfigFor(t *testing.T) {
	t.Run("should default to the basic configuration", func(t *testing.T) {
		if diff := cmp.Diff(api.BasicTypeCheckingConfig(), core.TypeCheckingConfigFor(core.CompilerOptions{})); diff != "" {
			t.Errorf("TypeCheckingConfigFor() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should recurse into bodies with fullTemplateTypeCheck", func(t *testing.T) {
		options := core.CompilerOptions{FullTemplateTypeCheck: boolPtr(true)}
		if diff := cmp.Diff(api.FullTemplateTypeCheckConfig(), core.TypeCheckingConfigFor(options)); diff != "" {
			t.Errorf("TypeCheckingConfigFor() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should apply fine-grained options over fullTemplateTypeCheck", func(t *testing.T) {
		options := core.CompilerOptions{FullTemplateTypeCheck: boolPtr(true), StrictInputTypes: boolPtr(true)}
		config := core.TypeCheckingConfigFor(options)

		assert.True(t, config.Enabled(api.FlagCheckTypeOfInputBindings))
		assert.True(t, config.Enabled(api.FlagApplyTemplateContextGuards))
		assert.Equal(t, api.CheckStrict, config.CheckMode(api.FlagCheckTypeOfInputBindings))
		assert.True(t, config.Enabled(api.FlagCheckTypeOfPipes))
		assert.False(t, config.Enabled(api.FlagCheckTypeOfOutputEvents))
	})

	t.Run("should apply fine-grained options over the basic configuration", func(t *testing.T) {
		options := core.CompilerOptions{StrictInputTypes: boolPtr(true), StrictNullInputTypes: boolPtr(true)}
		expected := api.BasicTypeCheckingConfig(
			api.WithFlags(true,
				api.FlagCheckTypeOfInputBindings,
				api.FlagApplyTemplateContextGuards,
				api.FlagStrictNullInputBindings,
			),
		)
		if diff := cmp.Diff(expected, core.TypeCheckingConfigFor(options)); diff != "" {
			t.Errorf("TypeCheckingConfigFor() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should let strictInputTypes control context guards", func(t *testing.T) {
		options := core.CompilerOptions{StrictTemplates: boolPtr(true), StrictInputTypes: boolPtr(false)}
		config := core.TypeCheckingConfigFor(options)
		assert.False(t, config.Enabled(api.FlagApplyTemplateContextGuards))
		assert.True(t, config.Enabled(api.FlagCheckTypeOfPipes))
	})

	t.Run("should match the strict preset with strictTemplates", func(t *testing.T) {
		options := core.CompilerOptions{StrictTemplates: boolPtr(true)}
		if diff := cmp.Diff(api.StrictTemplatesConfig(), core.TypeCheckingConfigFor(options)); diff != "" {
			t.Errorf("TypeCheckingConfigFor() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should apply fine-grained overrides", func(t *testing.T) {
		options := core.CompilerOptions{
			StrictTemplates:            boolPtr(true),
			StrictInputTypes:           boolPtr(false),
			StrictInputAccessModifiers: boolPtr(true),
			StrictOutputEventTypes:     boolPtr(false),
		}
		config := core.TypeCheckingConfigFor(options)

		assert.False(t, config.Enabled(api.FlagCheckTypeOfInputBindings))
		// Stored but inert while input bindings are unchecked.
		assert.True(t, config.Stored(api.FlagStrictNullInputBindings))
		assert.False(t, config.Enabled(api.FlagStrictNullInputBindings))
		assert.True(t, config.Stored(api.FlagHonorAccessModifiersForInputBindings))
		assert.False(t, config.Enabled(api.FlagCheckTypeOfOutputEvents))
		assert.False(t, config.Enabled(api.FlagCheckTypeOfAnimationEvents))
		assert.True(t, config.Enabled(api.FlagCheckTypeOfDomEvents))
	})
}

func TestLoadTsConfig(t *testing.T) {
	t.Run("should read angularCompilerOptions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tsconfig.json")
		content := `{
  "files": ["src/main.ts"],
  "angularCompilerOptions": {"strictTemplates": true, "strictDomEventTypes": false}
}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		config, err := core.LoadTsConfig(context.Background(), "file://"+path)
		require.NoError(t, err)
		assert.Equal(t, []string{"src/main.ts"}, config.Files)
		require.NotNil(t, config.AngularCompilerOptions.StrictTemplates)
		assert.True(t, *config.AngularCompilerOptions.StrictTemplates)
		assert.False(t, core.TypeCheckingConfigFor(config.AngularCompilerOptions).Enabled(api.FlagCheckTypeOfDomEvents))
	})

	t.Run("should fail on missing files", func(t *testing.T) {
		_, err := core.LoadTsConfig(context.Background(), "file://"+filepath.Join(t.TempDir(), "tsconfig.json"))
		assert.Error(t, err)
	})
}

func TestLoadTypeCheckingConfig(t *testing.T) {
	t.Run("should decode the format named by the extension", func(t *testing.T) {
		dir := t.TempDir()
		yamlPath := filepath.Join(dir, "typecheck.yaml")
		require.NoError(t, os.WriteFile(yamlPath, []byte("checkTemplateBodies: true\ncheckTypeOfPipes: true\n"), 0o644))
		tomlPath := filepath.Join(dir, "typecheck.toml")
		require.NoError(t, os.WriteFile(tomlPath, []byte("checkTemplateBodies = true\ncheckTypeOfPipes = true\n"), 0o644))

		expected := &api.TypeCheckingConfig{CheckTemplateBodies: true, CheckTypeOfPipes: true}
		for _, path := range []string{yamlPath, tomlPath} {
			config, err := core.LoadTypeCheckingConfig(context.Background(), "file://"+path)
			require.NoError(t, err)
			if diff := cmp.Diff(expected, config); diff != "" {
				t.Errorf("LoadTypeCheckingConfig(%v) mismatch (-want +got):\n%s", path, diff)
			}
		}
	})

	t.Run("should reject the reserved flag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "typecheck.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"checkQueries": true}`), 0o644))
		_, err := core.LoadTypeCheckingConfig(context.Background(), "file://"+path)
		assert.True(t, errors.Is(err, api.ErrReservedFlag))
	})

	t.Run("should fail on missing files", func(t *testing.T) {
		_, err := core.LoadTypeCheckingConfig(context.Background(), "file://"+filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})
}
