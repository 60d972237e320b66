package state

// GlobalOptions contains global config values that apply for all symver
// sub-commands.
type GlobalOptions struct {
	Quiet     bool
	NoColor   bool
	Verbose   bool
	LogOutput string
	LogFormat string
}

// GetDefaultFlags returns the default global flags.
func GetDefaultFlags() GlobalOptions {
	return GlobalOptions{
		LogOutput: "stderr",
	}
}

// ConsolidateFlags returns the default flags overlaid with their environment
// variable counterparts. Explicit CLI flags are bound on top of the result,
// so they win over both.
func ConsolidateFlags(defaultFlags GlobalOptions, env map[string]string) GlobalOptions {
	result := defaultFlags

	if val, ok := env["SYMVER_LOG_OUTPUT"]; ok {
		result.LogOutput = val
	}
	if val, ok := env["SYMVER_LOG_FORMAT"]; ok {
		result.LogFormat = val
	}
	if env["SYMVER_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable
	// the color output from symver.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	if env["SYMVER_QUIET"] != "" {
		result.Quiet = true
	}
	return result
}
