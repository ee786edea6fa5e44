package api

import (
	"github.com/pkg/errors"
)

// TypeCheckingConfig controls how strictly each category of template binding is checked.
//
// Flags are stored independently of one another, but some only take effect when the flag governing
// them is enabled (see Enabled). Stored values are kept as given so that the configuration survives
// serialization unchanged.
type TypeCheckingConfig struct {
	// CheckTypeOfInputBindings validates that bound expressions are assignable to the type of the
	// directive or component input they are bound to.
	CheckTypeOfInputBindings bool `json:"checkTypeOfInputBindings" yaml:"checkTypeOfInputBindings" toml:"checkTypeOfInputBindings" msgpack:"checkTypeOfInputBindings"`

	// HonorAccessModifiersForInputBindings reports writes to private, protected or readonly inputs.
	// Inert unless CheckTypeOfInputBindings.
	HonorAccessModifiersForInputBindings bool `json:"honorAccessModifiersForInputBindings" yaml:"honorAccessModifiersForInputBindings" toml:"honorAccessModifiersForInputBindings" msgpack:"honorAccessModifiersForInputBindings"`

	// StrictNullInputBindings preserves the nullability of bound expressions instead of asserting
	// them non-null. Inert unless CheckTypeOfInputBindings.
	StrictNullInputBindings bool `json:"strictNullInputBindings" yaml:"strictNullInputBindings" toml:"strictNullInputBindings" msgpack:"strictNullInputBindings"`

	// CheckTypeOfAttributes validates plain text attributes consumed as inputs.
	// Inert unless CheckTypeOfInputBindings.
	CheckTypeOfAttributes bool `json:"checkTypeOfAttributes" yaml:"checkTypeOfAttributes" toml:"checkTypeOfAttributes" msgpack:"checkTypeOfAttributes"`

	CheckTypeOfDomBindings      bool `json:"checkTypeOfDomBindings" yaml:"checkTypeOfDomBindings" toml:"checkTypeOfDomBindings" msgpack:"checkTypeOfDomBindings"`
	CheckTypeOfOutputEvents     bool `json:"checkTypeOfOutputEvents" yaml:"checkTypeOfOutputEvents" toml:"checkTypeOfOutputEvents" msgpack:"checkTypeOfOutputEvents"`
	CheckTypeOfAnimationEvents  bool `json:"checkTypeOfAnimationEvents" yaml:"checkTypeOfAnimationEvents" toml:"checkTypeOfAnimationEvents" msgpack:"checkTypeOfAnimationEvents"`
	CheckTypeOfDomEvents        bool `json:"checkTypeOfDomEvents" yaml:"checkTypeOfDomEvents" toml:"checkTypeOfDomEvents" msgpack:"checkTypeOfDomEvents"`
	CheckTypeOfDomReferences    bool `json:"checkTypeOfDomReferences" yaml:"checkTypeOfDomReferences" toml:"checkTypeOfDomReferences" msgpack:"checkTypeOfDomReferences"`
	CheckTypeOfNonDomReferences bool `json:"checkTypeOfNonDomReferences" yaml:"checkTypeOfNonDomReferences" toml:"checkTypeOfNonDomReferences" msgpack:"checkTypeOfNonDomReferences"`
	CheckTypeOfPipes            bool `json:"checkTypeOfPipes" yaml:"checkTypeOfPipes" toml:"checkTypeOfPipes" msgpack:"checkTypeOfPipes"`
	ApplyTemplateContextGuards  bool `json:"applyTemplateContextGuards" yaml:"applyTemplateContextGuards" toml:"applyTemplateContextGuards" msgpack:"applyTemplateContextGuards"`
	StrictSafeNavigationTypes   bool `json:"strictSafeNavigationTypes" yaml:"strictSafeNavigationTypes" toml:"strictSafeNavigationTypes" msgpack:"strictSafeNavigationTypes"`
	CheckTemplateBodies         bool `json:"checkTemplateBodies" yaml:"checkTemplateBodies" toml:"checkTemplateBodies" msgpack:"checkTemplateBodies"`

	// AlwaysCheckSchemaInTemplateBodies checks elements in nested template bodies against the DOM
	// schema even when their bindings are not otherwise checked.
	AlwaysCheckSchemaInTemplateBodies bool `json:"alwaysCheckSchemaInTemplateBodies" yaml:"alwaysCheckSchemaInTemplateBodies" toml:"alwaysCheckSchemaInTemplateBodies" msgpack:"alwaysCheckSchemaInTemplateBodies"`

	// CheckControlFlowBodies recurses into built-in control flow blocks.
	// Inert unless CheckTemplateBodies.
	CheckControlFlowBodies bool `json:"checkControlFlowBodies" yaml:"checkControlFlowBodies" toml:"checkControlFlowBodies" msgpack:"checkControlFlowBodies"`

	// CheckQueries is reserved. It must always be false.
	CheckQueries bool `json:"checkQueries" yaml:"checkQueries" toml:"checkQueries" msgpack:"checkQueries"`

	UseContextGenericType bool `json:"useContextGenericType" yaml:"useContextGenericType" toml:"useContextGenericType" msgpack:"useContextGenericType"`
	StrictLiteralTypes    bool `json:"strictLiteralTypes" yaml:"strictLiteralTypes" toml:"strictLiteralTypes" msgpack:"strictLiteralTypes"`

	AllowSignalsInTwoWayBindings bool `json:"allowSignalsInTwoWayBindings" yaml:"allowSignalsInTwoWayBindings" toml:"allowSignalsInTwoWayBindings" msgpack:"allowSignalsInTwoWayBindings"`
}

// Flag names one policy of a TypeCheckingConfig.
type Flag int

const (
	FlagCheckTypeOfInputBindings Flag = iota
	FlagHonorAccessModifiersForInputBindings
	FlagStrictNullInputBindings
	FlagCheckTypeOfAttributes
	FlagCheckTypeOfDomBindings
	FlagCheckTypeOfOutputEvents
	FlagCheckTypeOfAnimationEvents
	FlagCheckTypeOfDomEvents
	FlagCheckTypeOfDomReferences
	FlagCheckTypeOfNonDomReferences
	FlagCheckTypeOfPipes
	FlagApplyTemplateContextGuards
	FlagStrictSafeNavigationTypes
	FlagCheckTemplateBodies
	FlagAlwaysCheckSchemaInTemplateBodies
	FlagCheckControlFlowBodies
	FlagCheckQueries
	FlagUseContextGenericType
	FlagStrictLiteralTypes
	FlagAllowSignalsInTwoWayBindings

	flagCount
)

// flagNone marks a flag without a governing flag.
const flagNone Flag = -1

type flagSpec struct {
	name       string
	governedBy Flag
	reserved   bool
	field      func(c *TypeCheckingConfig) *bool
}

// flagTable declares every flag, and the flag which must be enabled for it to have any effect.
var flagTable = [flagCount]flagSpec{
	FlagCheckTypeOfInputBindings: {"checkTypeOfInputBindings", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfInputBindings }},
	FlagHonorAccessModifiersForInputBindings: {"honorAccessModifiersForInputBindings", FlagCheckTypeOfInputBindings, false,
		func(c *TypeCheckingConfig) *bool { return &c.HonorAccessModifiersForInputBindings }},
	FlagStrictNullInputBindings: {"strictNullInputBindings", FlagCheckTypeOfInputBindings, false,
		func(c *TypeCheckingConfig) *bool { return &c.StrictNullInputBindings }},
	FlagCheckTypeOfAttributes: {"checkTypeOfAttributes", FlagCheckTypeOfInputBindings, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfAttributes }},
	FlagCheckTypeOfDomBindings: {"checkTypeOfDomBindings", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfDomBindings }},
	FlagCheckTypeOfOutputEvents: {"checkTypeOfOutputEvents", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfOutputEvents }},
	FlagCheckTypeOfAnimationEvents: {"checkTypeOfAnimationEvents", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfAnimationEvents }},
	FlagCheckTypeOfDomEvents: {"checkTypeOfDomEvents", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfDomEvents }},
	FlagCheckTypeOfDomReferences: {"checkTypeOfDomReferences", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfDomReferences }},
	FlagCheckTypeOfNonDomReferences: {"checkTypeOfNonDomReferences", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfNonDomReferences }},
	FlagCheckTypeOfPipes: {"checkTypeOfPipes", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTypeOfPipes }},
	FlagApplyTemplateContextGuards: {"applyTemplateContextGuards", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.ApplyTemplateContextGuards }},
	FlagStrictSafeNavigationTypes: {"strictSafeNavigationTypes", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.StrictSafeNavigationTypes }},
	FlagCheckTemplateBodies: {"checkTemplateBodies", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckTemplateBodies }},
	FlagAlwaysCheckSchemaInTemplateBodies: {"alwaysCheckSchemaInTemplateBodies", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.AlwaysCheckSchemaInTemplateBodies }},
	FlagCheckControlFlowBodies: {"checkControlFlowBodies", FlagCheckTemplateBodies, false,
		func(c *TypeCheckingConfig) *bool { return &c.CheckControlFlowBodies }},
	FlagCheckQueries: {"checkQueries", flagNone, true,
		func(c *TypeCheckingConfig) *bool { return &c.CheckQueries }},
	FlagUseContextGenericType: {"useContextGenericType", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.UseContextGenericType }},
	FlagStrictLiteralTypes: {"strictLiteralTypes", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.StrictLiteralTypes }},
	FlagAllowSignalsInTwoWayBindings: {"allowSignalsInTwoWayBindings", flagNone, false,
		func(c *TypeCheckingConfig) *bool { return &c.AllowSignalsInTwoWayBindings }},
}

// Flags returns every flag in declaration order.
func Flags() []Flag {
	flags := make([]Flag, flagCount)
	for i := range flags {
		flags[i] = Flag(i)
	}
	return flags
}

func (f Flag) valid() bool {
	return f >= 0 && f < flagCount
}

// String returns the configuration key of the flag.
func (f Flag) String() string {
	if !f.valid() {
		return "unknown"
	}
	return flagTable[f].name
}

// GovernedBy returns the flag that must be enabled for f to take effect.
func (f Flag) GovernedBy() (Flag, bool) {
	if !f.valid() || flagTable[f].governedBy == flagNone {
		return flagNone, false
	}
	return flagTable[f].governedBy, true
}

// Reserved reports whether the flag is a placeholder that can never be enabled.
func (f Flag) Reserved() bool {
	return f.valid() && flagTable[f].reserved
}

// ParseFlag returns the flag with the given configuration key.
func ParseFlag(name string) (Flag, error) {
	for i, spec := range flagTable {
		if spec.name == name {
			return Flag(i), nil
		}
	}
	return flagNone, errors.Errorf("unknown type-checking flag %q", name)
}

// Stored returns the value stored for flag, regardless of whether it takes effect.
func (c *TypeCheckingConfig) Stored(flag Flag) bool {
	if !flag.valid() {
		return false
	}
	return *flagTable[flag].field(c)
}

// Enabled reports whether flag takes effect: its stored value is set, every flag governing it is
// enabled, and it is not reserved.
func (c *TypeCheckingConfig) Enabled(flag Flag) bool {
	if !flag.valid() || flag.Reserved() {
		return false
	}
	if !*flagTable[flag].field(c) {
		return false
	}
	if governor, ok := flag.GovernedBy(); ok {
		return c.Enabled(governor)
	}
	return true
}

// CheckMode is how the expression emitted for a binding is typed.
type CheckMode int

const (
	// CheckUnchecked widens the emitted expression to `any`, suppressing checking.
	CheckUnchecked CheckMode = iota
	// CheckStrict preserves and asserts the real computed type of the binding.
	CheckStrict
)

func (m CheckMode) String() string {
	if m == CheckStrict {
		return "strict"
	}
	return "unchecked"
}

// CheckMode returns how bindings of the category controlled by flag are emitted.
func (c *TypeCheckingConfig) CheckMode(flag Flag) CheckMode {
	if c.Enabled(flag) {
		return CheckStrict
	}
	return CheckUnchecked
}

// NullabilityMode is how nullable expressions bound to inputs are emitted.
type NullabilityMode int

const (
	// NullabilityAssertNonNull appends a non-null assertion to the bound expression.
	NullabilityAssertNonNull NullabilityMode = iota
	// NullabilityPreserve keeps the nullability of the bound expression.
	NullabilityPreserve
)

// InputNullability returns how nullable expressions bound to inputs are emitted.
func (c *TypeCheckingConfig) InputNullability() NullabilityMode {
	if c.Enabled(FlagStrictNullInputBindings) {
		return NullabilityPreserve
	}
	return NullabilityAssertNonNull
}

// Validate rejects configurations enabling a reserved flag.
func (c *TypeCheckingConfig) Validate() error {
	for _, flag := range Flags() {
		if flag.Reserved() && c.Stored(flag) {
			return errors.Wrapf(ErrReservedFlag, "%s cannot be enabled", flag)
		}
	}
	return nil
}

// Option modifies a TypeCheckingConfig.
type Option func(*TypeCheckingConfig)

// WithFlag stores value for flag. Reserved flags are left disabled.
func WithFlag(flag Flag, value bool) Option {
	return func(c *TypeCheckingConfig) {
		if !flag.valid() || flag.Reserved() {
			return
		}
		*flagTable[flag].field(c) = value
	}
}

// WithFlags stores value for every given flag.
func WithFlags(value bool, flags ...Flag) Option {
	return func(c *TypeCheckingConfig) {
		for _, flag := range flags {
			WithFlag(flag, value)(c)
		}
	}
}

// NewTypeCheckingConfig creates a configuration with every flag disabled, then applies opts.
func NewTypeCheckingConfig(opts ...Option) *TypeCheckingConfig {
	config := &TypeCheckingConfig{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// BasicTypeCheckingConfig only checks the top level of templates, with every binding unchecked.
func BasicTypeCheckingConfig(opts ...Option) *TypeCheckingConfig {
	return NewTypeCheckingConfig(opts...)
}

// FullTemplateTypeCheckConfig additionally recurses into nested template bodies and checks pipes,
// non-DOM references and literals, still leaving input and event bindings unchecked.
func FullTemplateTypeCheckConfig(opts ...Option) *TypeCheckingConfig {
	base := []Option{
		WithFlags(true,
			FlagCheckTemplateBodies,
			FlagAlwaysCheckSchemaInTemplateBodies,
			FlagCheckControlFlowBodies,
			FlagCheckTypeOfNonDomReferences,
			FlagCheckTypeOfPipes,
			FlagStrictLiteralTypes,
			FlagAllowSignalsInTwoWayBindings,
		),
	}
	return NewTypeCheckingConfig(append(base, opts...)...)
}

// StrictTemplatesConfig checks every binding category strictly, except DOM property bindings and
// access modifiers which stay opt-in.
func StrictTemplatesConfig(opts ...Option) *TypeCheckingConfig {
	base := []Option{
		WithFlags(true,
			FlagCheckTypeOfInputBindings,
			FlagStrictNullInputBindings,
			FlagCheckTypeOfAttributes,
			FlagCheckTypeOfOutputEvents,
			FlagCheckTypeOfAnimationEvents,
			FlagCheckTypeOfDomEvents,
			FlagCheckTypeOfDomReferences,
			FlagCheckTypeOfNonDomReferences,
			FlagCheckTypeOfPipes,
			FlagApplyTemplateContextGuards,
			FlagStrictSafeNavigationTypes,
			FlagCheckTemplateBodies,
			FlagAlwaysCheckSchemaInTemplateBodies,
			FlagCheckControlFlowBodies,
			FlagUseContextGenericType,
			FlagStrictLiteralTypes,
			FlagAllowSignalsInTwoWayBindings,
		),
	}
	return NewTypeCheckingConfig(append(base, opts...)...)
}
