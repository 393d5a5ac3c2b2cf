package shared

// ConfirmationPolicy specifies how destructive operations handle operator confirmations.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt asks the operator about every repository.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes proceeds without prompting.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts a --confirm style flag into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the operation must prompt the operator.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}

// ExecutionMode distinguishes previews from mutations.
type ExecutionMode int

const (
	// ExecutionApply performs mutations.
	ExecutionApply ExecutionMode = iota
	// ExecutionDryRun reports the plan without mutating anything.
	ExecutionDryRun
)

// ExecutionModeFromBool converts a --dry-run style flag into a mode.
func ExecutionModeFromBool(dryRun bool) ExecutionMode {
	if dryRun {
		return ExecutionDryRun
	}
	return ExecutionApply
}

// IsDryRun reports whether mutations must be skipped.
func (mode ExecutionMode) IsDryRun() bool {
	return mode == ExecutionDryRun
}
