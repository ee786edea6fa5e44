package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ngtcb-go/packages/compiler-cli/src/ngtsc/logging"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck"
	"ngtcb-go/packages/compiler-cli/src/ngtsc/typecheck/api"
)

var (
	inspectProject string
	inspectConfig  string
	inspectPreset  string
	inspectJobs    int
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectProject, "project", "p", "", "path to tsconfig.json")
	inspectCmd.Flags().StringVarP(&inspectConfig, "config", "c", "", "path to a type-checking config (yaml|json|toml)")
	inspectCmd.Flags().StringVar(&inspectPreset, "preset", "", "use a preset instead of a tsconfig (basic|full|strict)")
	inspectCmd.Flags().IntVarP(&inspectJobs, "jobs", "j", 0, "components assembled in parallel (0 = GOMAXPROCS)")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <manifest>",
	Short: "Assemble the type check block metadata of every component in a manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := logging.WithLogger(cmd.Context(), newLogger(cmd))
	applyColorMode(cmd)

	config, err := resolveConfig(cmd, inspectProject, inspectConfig, inspectPreset)
	if err != nil {
		return err
	}
	manifest, err := LoadManifest(ctx, args[0])
	if err != nil {
		return err
	}
	project, err := manifest.Build(manifestBaseURL(args[0]))
	if err != nil {
		return err
	}

	assembler := typecheck.NewAssembler(project.Registry, typecheck.NewTemplateResolver(nil), typecheck.WithJobs(inspectJobs))
	results := assembler.AssembleAll(ctx, project.Units)

	out := cmd.OutOrStdout()
	printConfigSummary(out, config)
	failed := printResults(out, results)
	if failed > 0 {
		return errors.Errorf("%d/%d components failed", failed, len(results))
	}
	return nil
}

func applyColorMode(cmd *cobra.Command) {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}

func printConfigSummary(out io.Writer, config *api.TypeCheckingConfig) {
	enabled := 0
	for _, flag := range api.Flags() {
		if config.Enabled(flag) {
			enabled++
		}
	}
	fmt.Fprintf(out, "type-checking: %d/%d policies in effect, inputs %s, nullability %s\n",
		enabled, len(api.Flags()),
		config.CheckMode(api.FlagCheckTypeOfInputBindings),
		nullabilityName(config.InputNullability()))
}

// printResults prints one line per component and returns the number of failures.
func printResults(out io.Writer, results []typecheck.Result) int {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	failed := 0
	for _, result := range results {
		name := result.Unit.Ref.DebugName()
		if result.Err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", bad("✗"), name, result.Err)
			var loadErr *api.TemplateLoadError
			if errors.As(result.Err, &loadErr) {
				fmt.Fprintf(out, "    %s\n", loadErr.Diagnostic())
			}
			continue
		}
		meta := result.Template.Meta
		directives := meta.BoundTarget.GetUsedDirectives()
		fmt.Fprintf(out, "%s %s %s (%s) directives=%d pipes=%d schemas=%d\n",
			ok("✓"), name, faint(string(meta.ID)), result.Template.Mapping.MappingType(),
			len(directives), len(meta.Pipes), len(meta.Schemas))

		for _, dir := range directives {
			if !typecheck.RequiresTypeCtor(dir) {
				continue
			}
			ctor := typecheck.NewTypeCtorRequest(dir, "")
			fmt.Fprintf(out, "    type ctor %s inputs=%v coerced=%v\n", dir.Name(), ctor.Fields.Inputs, []string(ctor.CoercedInputFields))
		}
		pipeNames := make([]string, 0, len(meta.Pipes))
		for pipeName := range meta.Pipes {
			pipeNames = append(pipeNames, pipeName)
		}
		sort.Strings(pipeNames)
		for _, pipeName := range pipeNames {
			fmt.Fprintf(out, "    pipe %s -> %s\n", pipeName, meta.Pipes[pipeName].DebugName())
		}
	}
	return failed
}

func nullabilityName(mode api.NullabilityMode) string {
	if mode == api.NullabilityPreserve {
		return "preserved"
	}
	return "asserted non-null"
}
