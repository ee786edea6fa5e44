package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/core"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

var (
	configProject string
	configFile    string
	configPreset  string
	configFormat  string
)

func init() {
	configCmd.Flags().StringVarP(&configProject, "project", "p", "", "path to tsconfig.json")
	configCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a type-checking config (yaml|json|toml)")
	configCmd.Flags().StringVar(&configPreset, "preset", "", "use a preset instead of a tsconfig (basic|full|strict)")
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "output format (yaml|json|toml)")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved type-checking configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveConfig(cmd, configProject, configFile, configPreset)
		if err != nil {
			return err
		}
		data, err := api.EncodeConfig(config, api.ConfigFormat(strings.ToLower(configFormat)))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

// resolveConfig derives the configuration from a tsconfig file, a type-checking config file or a
// preset. Without any of them, the strict preset is used.
func resolveConfig(cmd *cobra.Command, project, configFile, preset string) (*api.TypeCheckingConfig, error) {
	sources := 0
	for _, source := range []string{project, configFile, preset} {
		if source != "" {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("--project, --config and --preset are mutually exclusive")
	}
	if project != "" {
		tsConfig, err := core.LoadTsConfig(cmd.Context(), project)
		if err != nil {
			return nil, err
		}
		return core.TypeCheckingConfigFor(tsConfig.AngularCompilerOptions), nil
	}
	if configFile != "" {
		return core.LoadTypeCheckingConfig(cmd.Context(), configFile)
	}
	switch strings.ToLower(preset) {
	case "basic":
		return api.BasicTypeCheckingConfig(), nil
	case "full":
		return api.FullTemplateTypeCheckConfig(), nil
	case "", "strict":
		return api.StrictTemplatesConfig(), nil
	}
	return nil, errors.Errorf("unknown preset %q", preset)
}
