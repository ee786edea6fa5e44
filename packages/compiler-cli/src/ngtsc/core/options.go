// Package core reads the Angular compiler options relevant to template type checking.
package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/viant/afs"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

// TsConfig is the subset of a tsconfig.json file read by the compiler.
type TsConfig struct {
	AngularCompilerOptions CompilerOptions `json:"angularCompilerOptions"`
	Files                  []string        `json:"files"`
	Include                []string        `json:"include"`
	Exclude                []string        `json:"exclude"`
}

// CompilerOptions are the angularCompilerOptions controlling template type checking. Unset
// fine-grained options follow the preset selected by StrictTemplates and FullTemplateTypeCheck.
type CompilerOptions struct {
	FullTemplateTypeCheck      *bool `json:"fullTemplateTypeCheck,omitempty"`
	StrictTemplates            *bool `json:"strictTemplates,omitempty"`
	StrictInputTypes           *bool `json:"strictInputTypes,omitempty"`
	StrictInputAccessModifiers *bool `json:"strictInputAccessModifiers,omitempty"`
	StrictNullInputTypes       *bool `json:"strictNullInputTypes,omitempty"`
	StrictAttributeTypes       *bool `json:"strictAttributeTypes,omitempty"`
	StrictOutputEventTypes     *bool `json:"strictOutputEventTypes,omitempty"`
	StrictDomEventTypes        *bool `json:"strictDomEventTypes,omitempty"`
	StrictDomLocalRefTypes     *bool `json:"strictDomLocalRefTypes,omitempty"`
	StrictSafeNavigationTypes  *bool `json:"strictSafeNavigationTypes,omitempty"`
	StrictContextGenerics      *bool `json:"strictContextGenerics,omitempty"`
	StrictLiteralTypes         *bool `json:"strictLiteralTypes,omitempty"`
}

// LoadTsConfig reads and parses a tsconfig.json file.
func LoadTsConfig(ctx context.Context, URL string) (*TsConfig, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tsconfig: %v", URL)
	}
	config := &TsConfig{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tsconfig: %v", URL)
	}
	return config, nil
}

// LoadTypeCheckingConfig reads a configuration written by api.EncodeConfig. The format follows the
// file extension.
func LoadTypeCheckingConfig(ctx context.Context, URL string) (*api.TypeCheckingConfig, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read type-checking config: %v", URL)
	}
	config, err := api.DecodeConfig(data, api.ConfigFormatOf(URL))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid type-checking config: %v", URL)
	}
	return config, nil
}

// TypeCheckingConfigFor derives the type-checking configuration of a compilation.
//
// strictTemplates selects the strict preset, fullTemplateTypeCheck the full one, and neither the
// basic one. Every fine-grained option that is explicitly set then overrides the flags it controls,
// whatever the preset.
func TypeCheckingConfigFor(options CompilerOptions) *api.TypeCheckingConfig {
	var config *api.TypeCheckingConfig
	switch {
	case isSet(options.StrictTemplates, false):
		config = api.StrictTemplatesConfig()
	case isSet(options.FullTemplateTypeCheck, false):
		config = api.FullTemplateTypeCheckConfig()
	default:
		config = api.BasicTypeCheckingConfig()
	}
	for _, override := range strictOverrides {
		if option := override.option(&options); option != nil {
			api.WithFlags(*option, override.flags...)(config)
		}
	}
	return config
}

// strictOverrides lists the flags controlled by each fine-grained option.
var strictOverrides = []struct {
	option func(o *CompilerOptions) *bool
	flags  []api.Flag
}{
	{func(o *CompilerOptions) *bool { return o.StrictInputTypes },
		[]api.Flag{api.FlagCheckTypeOfInputBindings, api.FlagApplyTemplateContextGuards}},
	{func(o *CompilerOptions) *bool { return o.StrictInputAccessModifiers },
		[]api.Flag{api.FlagHonorAccessModifiersForInputBindings}},
	{func(o *CompilerOptions) *bool { return o.StrictNullInputTypes },
		[]api.Flag{api.FlagStrictNullInputBindings}},
	{func(o *CompilerOptions) *bool { return o.StrictOutputEventTypes },
		[]api.Flag{api.FlagCheckTypeOfOutputEvents, api.FlagCheckTypeOfAnimationEvents}},
	{func(o *CompilerOptions) *bool { return o.StrictDomEventTypes },
		[]api.Flag{api.FlagCheckTypeOfDomEvents}},
	{func(o *CompilerOptions) *bool { return o.StrictSafeNavigationTypes },
		[]api.Flag{api.FlagStrictSafeNavigationTypes}},
	{func(o *CompilerOptions) *bool { return o.StrictDomLocalRefTypes },
		[]api.Flag{api.FlagCheckTypeOfDomReferences}},
	{func(o *CompilerOptions) *bool { return o.StrictAttributeTypes },
		[]api.Flag{api.FlagCheckTypeOfAttributes}},
	{func(o *CompilerOptions) *bool { return o.StrictContextGenerics },
		[]api.Flag{api.FlagUseContextGenericType}},
	{func(o *CompilerOptions) *bool { return o.StrictLiteralTypes },
		[]api.Flag{api.FlagStrictLiteralTypes}},
}

func isSet(option *bool, defaultSetting bool) bool {
	if option == nil {
		return defaultSetting
	}
	return *option
}
