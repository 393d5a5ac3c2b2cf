// Package flags binds the shell's shared execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagShorthand provides the shorthand for the dry-run flag.
	DryRunFlagShorthand = "n"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Print the plan without changing anything"
	// ConfirmFlagName exposes the shared confirmation flag name.
	ConfirmFlagName = "confirm"
	// ConfirmFlagShorthand provides the shorthand for the confirmation flag.
	ConfirmFlagShorthand = "y"
	// ConfirmFlagUsage describes the shared confirmation flag purpose.
	ConfirmFlagUsage = "Proceed without asking about each repository"
)

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun  ExecutionFlagDefinition
	Confirm ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables the requested flags with their standard names.
func DefaultExecutionFlagDefinitions(enableDryRun bool, enableConfirm bool) ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:  ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Shorthand: DryRunFlagShorthand, Enabled: enableDryRun},
		Confirm: ExecutionFlagDefinition{Name: ConfirmFlagName, Usage: ConfirmFlagUsage, Shorthand: ConfirmFlagShorthand, Enabled: enableConfirm},
	}
}

// BindExecutionFlags attaches the execution flags to command. When both are enabled they are mutually exclusive.
func BindExecutionFlags(command *cobra.Command, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	flagSet := command.Flags()
	dryRunBound := bindBoolFlag(flagSet, definitions.DryRun)
	confirmBound := bindBoolFlag(flagSet, definitions.Confirm)
	if dryRunBound && confirmBound {
		command.MarkFlagsMutuallyExclusive(definitions.DryRun.Name, definitions.Confirm.Name)
	}
}

// ReadExecutionMode converts the dry-run flag into an execution mode.
func ReadExecutionMode(command *cobra.Command, definitions ExecutionFlagDefinitions) shared.ExecutionMode {
	return shared.ExecutionModeFromBool(readBoolFlag(command, definitions.DryRun))
}

// ReadConfirmationPolicy converts the confirmation flag into a confirmation policy.
func ReadConfirmationPolicy(command *cobra.Command, definitions ExecutionFlagDefinitions) shared.ConfirmationPolicy {
	return shared.ConfirmationPolicyFromBool(readBoolFlag(command, definitions.Confirm))
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition) bool {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return false
	}
	if flagSet.Lookup(definition.Name) != nil {
		return true
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, false, definition.Usage)
		return true
	}

	flagSet.Bool(definition.Name, false, definition.Usage)
	return true
}

func readBoolFlag(command *cobra.Command, definition ExecutionFlagDefinition) bool {
	if command == nil || !definition.Enabled {
		return false
	}
	value, lookupError := command.Flags().GetBool(definition.Name)
	if lookupError != nil {
		return false
	}
	return value
}
